package core

// Table 是读入内存的分隔符文本表，第一行为表头。
type Table struct {
	Source    string
	Separator rune
	Header    []string
	Rows      [][]string
}

// Len 返回数据行数（不含表头）
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
