package cmd

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/common/utils"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

var withHoldings bool

// ScoreCmd 计算单个钱包的评分, 结果以 json 输出
var ScoreCmd = &cobra.Command{
	Use:   "score <address>",
	Short: "score a solana wallet.",
	Long:  "score a solana wallet with the configured reputation policy and print the report as json.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]
		if !utils.IsSolanaAddress(address) {
			return errors.Errorf("invalid solana address: %s", address)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := xzap.SetUp(cfg.Log); err != nil {
			return err
		}
		ctx := cmd.Context()

		indexer := reputation.NewHeliusClient(cfg.Helius)
		policy, err := reputation.LoadPolicy(cfg.Reputation.PolicyFile)
		if err != nil {
			xzap.WithContext(ctx).Warn("failed on load reputation policy, using defaults", zap.Error(err))
		}
		engine := reputation.NewEngine(indexer, policy, reputation.WithPaging(cfg.Reputation.PageLimit, cfg.Reputation.MaxPages))
		report, err := engine.Evaluate(ctx, address)
		if err != nil {
			return err
		}

		out := map[string]interface{}{"report": report}
		if withHoldings {
			holdings, err := reputation.CheckHoldings(ctx, indexer, address, cfg.Holdings)
			if err != nil {
				return err
			}
			out["holdings"] = holdings
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	ScoreCmd.Flags().BoolVar(&withHoldings, "holdings", false, "also check holder access requirements")
	rootCmd.AddCommand(ScoreCmd)
}
