package utils

import (
	"github.com/shopspring/decimal"
)

// Min 返回两个整数中的较小值
func Min(x, y int) int {
	if x > y {
		return y
	}
	return x
}

// Max 返回两个整数中的较大值
func Max(x, y int) int {
	if x < y {
		return y
	}
	return x
}

// Round2 保留两位小数 (四舍五入)
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round2Ptr 同 Round2, nil 保持 nil
func Round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}
