package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	DefaultNonceTTL   = 5 * time.Minute
	DefaultSessionTTL = 15 * time.Minute

	nonceKeyPrefix   = "feral:wallet:nonce:"
	sessionKeyPrefix = "feral:wallet:session:"
	unknownUserAgent = "unknown"
	sessionTokenSize = 32
)

var (
	ErrMessageMismatch = errors.New("signature message does not match wallet")
	ErrNonceInvalid    = errors.New("nonce is invalid or expired")
	ErrSignature       = errors.New("signature verification failed")

	nonceRe = regexp.MustCompile(`Nonce:\s*([A-Za-z0-9-]+)`)
)

// Config 钱包登录配置
type Config struct {
	NonceTTL   time.Duration `toml:"nonce_ttl" mapstructure:"nonce_ttl" json:"nonce_ttl"`
	SessionTTL time.Duration `toml:"session_ttl" mapstructure:"session_ttl" json:"session_ttl"`
}

// Nonce 下发给前端的一次性随机串
type Nonce struct {
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Session 验签成功后颁发的 bearer token
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type nonceRecord struct {
	PublicKey string `json:"publicKey"`
	ExpiresAt int64  `json:"expiresAt"`
}

// SessionRecord 服务端保存的会话
type SessionRecord struct {
	PublicKey     string `json:"publicKey"`
	UserAgentHash string `json:"userAgentHash"`
	ExpiresAt     int64  `json:"expiresAt"`
}

// Authenticator 钱包签名登录: nonce -> 签名 -> session
type Authenticator struct {
	store      Store
	nonceTTL   time.Duration
	sessionTTL time.Duration
	now        func() time.Time
}

type Option func(*Authenticator)

// WithClock 测试中固定当前时间
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

func New(store Store, c Config, opts ...Option) *Authenticator {
	a := &Authenticator{
		store:      store,
		nonceTTL:   c.NonceTTL,
		sessionTTL: c.SessionTTL,
		now:        time.Now,
	}
	if a.nonceTTL <= 0 {
		a.nonceTTL = DefaultNonceTTL
	}
	if a.sessionTTL <= 0 {
		a.sessionTTL = DefaultSessionTTL
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IssueNonce 生成绑定公钥的 nonce
func (a *Authenticator) IssueNonce(publicKey string) (*Nonce, error) {
	nonce := uuid.NewString()
	expiresAt := a.now().Add(a.nonceTTL).UnixMilli()

	if err := a.put(nonceKeyPrefix+nonce, nonceRecord{PublicKey: publicKey, ExpiresAt: expiresAt}, a.nonceTTL); err != nil {
		return nil, errors.Wrap(err, "failed on save nonce")
	}
	return &Nonce{Nonce: nonce, ExpiresAt: expiresAt}, nil
}

// ConsumeNonce nonce 存在, 未使用, 未过期且属于该公钥时返回 true, 并将其作废
func (a *Authenticator) ConsumeNonce(publicKey, nonce string) (bool, error) {
	key := nonceKeyPrefix + nonce
	var rec nonceRecord
	found, err := a.get(key, &rec)
	if err != nil || !found {
		return false, err
	}
	if rec.PublicKey != publicKey {
		return false, nil
	}

	// 并发消费时只有一个请求能删除成功
	n, err := a.store.Del(key)
	if err != nil {
		return false, errors.Wrap(err, "failed on consume nonce")
	}
	if n == 0 {
		return false, nil
	}
	return rec.ExpiresAt >= a.now().UnixMilli(), nil
}

// ExtractNonce 从签名原文中取出 "Nonce: <value>"
func ExtractNonce(message string) (string, bool) {
	m := nonceRe.FindStringSubmatch(message)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// MessageMatchesPublicKey 签名原文中必须包含 "Address: <publicKey>"
func MessageMatchesPublicKey(message, publicKey string) bool {
	return strings.Contains(message, "Address: "+publicKey)
}

// VerifySignature ed25519 验签, 公钥与签名均为 base58
func VerifySignature(publicKey, message, signature string) bool {
	pk, err := base58.Decode(publicKey)
	if err != nil || len(pk) != ed25519.PublicKeySize {
		return false
	}
	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pk, []byte(message), sig)
}

// Verify 校验签名原文 -> 消费 nonce -> 验签
func (a *Authenticator) Verify(publicKey, message, signature string) error {
	if !MessageMatchesPublicKey(message, publicKey) {
		return ErrMessageMismatch
	}
	nonce, ok := ExtractNonce(message)
	if !ok {
		return ErrNonceInvalid
	}
	consumed, err := a.ConsumeNonce(publicKey, nonce)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrNonceInvalid
	}
	if !VerifySignature(publicKey, message, signature) {
		return ErrSignature
	}
	return nil
}

// CreateSession 颁发 session, 绑定 user-agent
func (a *Authenticator) CreateSession(publicKey, userAgent string) (*Session, error) {
	buf := make([]byte, sessionTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "failed on generate session token")
	}
	token := hex.EncodeToString(buf)
	expiresAt := a.now().Add(a.sessionTTL).UnixMilli()

	rec := SessionRecord{PublicKey: publicKey, UserAgentHash: hashUserAgent(userAgent), ExpiresAt: expiresAt}
	if err := a.put(sessionKeyPrefix+token, rec, a.sessionTTL); err != nil {
		return nil, errors.Wrap(err, "failed on save session")
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// GetSession token 无效, 已过期或 user-agent 不一致时返回 nil
func (a *Authenticator) GetSession(token, userAgent string) (*SessionRecord, error) {
	if token == "" {
		return nil, nil
	}
	key := sessionKeyPrefix + token
	var rec SessionRecord
	found, err := a.get(key, &rec)
	if err != nil || !found {
		return nil, err
	}
	if rec.ExpiresAt < a.now().UnixMilli() {
		if _, err := a.store.Del(key); err != nil {
			return nil, errors.Wrap(err, "failed on delete expired session")
		}
		return nil, nil
	}
	if rec.UserAgentHash != hashUserAgent(userAgent) {
		return nil, nil
	}
	return &rec, nil
}

// BearerToken 解析 "Authorization: Bearer <token>"
func BearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}

func hashUserAgent(userAgent string) string {
	if userAgent == "" {
		userAgent = unknownUserAgent
	}
	sum := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(sum[:])
}

func (a *Authenticator) put(key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	seconds := int((ttl + time.Second - 1) / time.Second)
	return a.store.Setex(key, string(b), seconds)
}

func (a *Authenticator) get(key string, v interface{}) (bool, error) {
	raw, err := a.store.Get(key)
	if err != nil {
		return false, errors.Wrap(err, "failed on read auth store")
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, errors.Wrap(err, "failed on decode auth record")
	}
	return true, nil
}
