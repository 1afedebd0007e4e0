// Package sample 提供训练/测试集的分层切分。
package sample

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rushteam/segkit/core"
)

// StratifiedSplit 按 testSize 比例分层切分样本集，两个子集中各类别比例与原集一致。
//
// 规则：
//   - 测试集大小为 ceil(n * testSize)，其余为训练集
//   - 各类别的名额按比例分配，取整误差按余数从大到小补齐（同余数按类别顺序）
//   - 同一 seed 对同一输入总是得到相同的切分
//
// 缺少任一活跃度类别、最少类别样本数小于 2，或任一子集小于类别数时返回 split 阶段错误。
func StratifiedSplit(ds core.Dataset, testSize float64, seed int64) (train, test core.Dataset, err error) {
	n := ds.Len()
	if testSize <= 0 || testSize >= 1 {
		return train, test, core.Errorf(core.StageSplit, core.ErrorCodeInvalidInput, "test size must be in (0, 1), got %v", testSize)
	}
	if n == 0 {
		return train, test, core.NewDomainError(core.StageSplit, core.ErrorCodeEmptyResult, "no samples to split")
	}

	classes, members := groupByClass(ds)
	if len(classes) < len(core.ActivityClasses) {
		return train, test, core.Errorf(core.StageSplit, core.ErrorCodeInsufficientClass,
			"only class(es) %v present after filtering, need both %v", classes, core.ActivityClasses)
	}
	counts := make([]int, len(classes))
	for i, c := range classes {
		counts[i] = len(members[c])
	}
	for i, c := range counts {
		if c < 2 {
			return train, test, core.Errorf(core.StageSplit, core.ErrorCodeInsufficientClass,
				"the least populated class %q has only %d member(s), at least 2 are required to stratify", classes[i], c)
		}
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTrain < len(classes) || nTest < len(classes) {
		return train, test, core.Errorf(core.StageSplit, core.ErrorCodeInsufficientClass,
			"train size %d and test size %d must both be at least the number of classes %d", nTrain, nTest, len(classes))
	}

	rng := rand.New(rand.NewSource(seed))
	trainPerClass := approximateMode(counts, nTrain)
	remaining := make([]int, len(counts))
	for i := range counts {
		remaining[i] = counts[i] - trainPerClass[i]
	}
	testPerClass := approximateMode(remaining, nTest)

	var trainIdx, testIdx []int
	for i, c := range classes {
		idx := members[c]
		perm := rng.Perm(len(idx))
		for k, p := range perm {
			switch {
			case k < trainPerClass[i]:
				trainIdx = append(trainIdx, idx[p])
			case k < trainPerClass[i]+testPerClass[i]:
				testIdx = append(testIdx, idx[p])
			}
		}
	}
	rng.Shuffle(len(trainIdx), func(a, b int) { trainIdx[a], trainIdx[b] = trainIdx[b], trainIdx[a] })
	rng.Shuffle(len(testIdx), func(a, b int) { testIdx[a], testIdx[b] = testIdx[b], testIdx[a] })

	return subset(ds, trainIdx), subset(ds, testIdx), nil
}

// groupByClass 返回排序后的类别及每个类别的样本下标（按出现顺序）。
func groupByClass(ds core.Dataset) ([]string, map[string][]int) {
	members := make(map[string][]int)
	for i, s := range ds.Samples {
		members[s.Label] = append(members[s.Label], i)
	}
	classes := make([]string, 0, len(members))
	for c := range members {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes, members
}

// approximateMode 把 draws 个名额按 counts 的比例分配给各类别。
func approximateMode(counts []int, draws int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]int, len(counts))
	if total == 0 || draws <= 0 {
		return out
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(counts))
	assigned := 0
	for i, c := range counts {
		cont := float64(c) * float64(draws) / float64(total)
		fl := math.Floor(cont)
		out[i] = int(fl)
		assigned += out[i]
		rems[i] = rem{idx: i, frac: cont - fl}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; assigned < draws && k < len(rems); k++ {
		i := rems[k].idx
		if out[i] < counts[i] {
			out[i]++
			assigned++
		}
	}
	return out
}

func subset(ds core.Dataset, idx []int) core.Dataset {
	out := core.Dataset{
		FeatureNames: ds.FeatureNames,
		Classes:      ds.Classes,
		Samples:      make([]core.Sample, len(idx)),
	}
	for i, j := range idx {
		out.Samples[i] = ds.Samples[j]
	}
	return out
}
