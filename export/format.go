package export

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat 按表格工具的惯例输出浮点数：
// 最短可往返的十进制表示，整数值保留 ".0"，
// 绝对值小于 1e-4 或不小于 1e16 时使用科学计数法（如 1e-05）。
// NaN 输出为空单元格。
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); f != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
