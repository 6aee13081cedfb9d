package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWPM(t *testing.T) {
	assert.Equal(t, 10, WPM(50, 60))
	assert.Equal(t, 0, WPM(0, 0))
	assert.Equal(t, 300, WPM(25, 0.5)) // floored to one second
	assert.Equal(t, 300, WPM(25, -4))
	assert.Equal(t, 48, WPM(120, 30))
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 90, Accuracy(45, 50))
	assert.Equal(t, 100, Accuracy(0, 0))
	assert.Equal(t, 0, Accuracy(0, 10))
	assert.Equal(t, 100, Accuracy(10, 10))
	assert.Equal(t, 67, Accuracy(2, 3))
}

func TestAccuracyBounds(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for correct := 0; correct <= total; correct++ {
			acc := Accuracy(correct, total)
			assert.GreaterOrEqual(t, acc, 0)
			assert.LessOrEqual(t, acc, 100)
		}
	}
}

func TestRawWPM(t *testing.T) {
	assert.Equal(t, 67, RawWPM(60, 90))
	assert.Equal(t, 120, RawWPM(60, 20)) // accuracy floored at 50
	assert.Equal(t, 60, RawWPM(60, 100))
	assert.Equal(t, 0, RawWPM(0, 100))
}

func TestConsistency(t *testing.T) {
	cases := []struct {
		name    string
		samples []int
		want    int
	}{
		{"empty", nil, 100},
		{"single", []int{37}, 100},
		{"flat", []int{50, 50, 50, 50}, 100},
		{"two apart", []int{40, 60}, 80},
		{"outlier filtered", []int{50, 50, 50, 50, 50, 50, 50, 200}, 100},
		{"wide", []int{10, 100}, 18},
		{"wider", []int{5, 100}, 10},
		{"clamped", []int{0, 10}, 0},
		{"dip filtered", []int{60, 62, 58, 61, 59, 30}, 98},
		{"steady", []int{70, 72, 68, 75, 65, 71}, 96},
		{"zero mean", []int{0, 0, 0}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Consistency(tc.samples))
		})
	}
}

func TestConsistencyBounds(t *testing.T) {
	series := [][]int{
		{0, 1000},
		{1, 2, 3, 500, 4, 5},
		{100, 0, 100, 0, 100, 0},
		{7, 7, 7, 8},
		{0},
	}
	for _, s := range series {
		c := Consistency(s)
		assert.GreaterOrEqual(t, c, 0, "samples %v", s)
		assert.LessOrEqual(t, c, 100, "samples %v", s)
	}
}

func TestCountChars(t *testing.T) {
	correct, incorrect := CountChars([]rune("hello"), []rune("hxllo!"))
	assert.Equal(t, 4, correct)
	assert.Equal(t, 2, incorrect)
}

func TestErrorPositions(t *testing.T) {
	ref := []rune("hello world")
	assert.Equal(t, []int{0, 1}, ErrorPositions(ref, []rune("hellx wxrld")))
	assert.Equal(t, []int{0}, ErrorPositions(ref, []rune("hxxlo")))
	assert.Equal(t, []int{0, 1, 2}, ErrorPositions(ref, []rune("xello worxx")))
	assert.Equal(t, []int{}, ErrorPositions(ref, []rune("hello")))
}

func TestErrorIndices(t *testing.T) {
	ref := []rune("hello world")
	assert.Equal(t, []int{4, 7}, ErrorIndices(ref, []rune("hellx wxrld")))
	assert.Equal(t, []int{}, ErrorIndices(ref, nil))
}

func TestReduce(t *testing.T) {
	res := Reduce(Capture{
		Reference:      "abcde fghij",
		Input:          "abcde fxhij",
		ElapsedSeconds: 60,
		Samples:        []int{10, 10},
	})
	assert.Equal(t, 2, res.WPM)
	assert.Equal(t, 91, res.Accuracy)
	assert.Equal(t, 2, res.RawWPM)
	assert.Equal(t, 100, res.Consistency)
	assert.Equal(t, 10, res.CorrectChars)
	assert.Equal(t, 1, res.IncorrectChars)
	assert.Equal(t, 11, res.TotalChars)
	assert.Equal(t, res.TotalChars, res.CorrectChars+res.IncorrectChars)
	assert.Equal(t, []int{1}, res.ErrorPositions)
	assert.Equal(t, []int{10, 10}, res.Samples)
}

func TestReduceEmptySession(t *testing.T) {
	res := Reduce(Capture{Reference: "abc"})
	assert.Equal(t, 0, res.WPM)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 100, res.Consistency)
	assert.Equal(t, 0, res.TotalChars)
	assert.Empty(t, res.ErrorPositions)
}
