package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"negachess/board"
)

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero depth", func(o *Options) { o.MaxDepth = 0 }},
		{"depth past the ply limit", func(o *Options) { o.MaxDepth = MaxPly }},
		{"negative move time", func(o *Options) { o.MoveTime = -time.Second }},
		{"tiny table", func(o *Options) { o.TTCapacity = 1 }},
		{"tiny eval cache", func(o *Options) { o.EvalCacheCapacity = 5 }},
		{"negative tablebase pieces", func(o *Options) { o.TBPieceCount = -1 }},
	}
	for _, tt := range tests {
		o := DefaultOptions()
		tt.modify(&o)
		if err := o.Validate(); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("%s: got %v", tt.name, err)
		}
		if _, err := New(o); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("%s: New accepted invalid options", tt.name)
		}
	}
}

func TestClockBudget(t *testing.T) {
	start := board.NewBoard()
	tests := []struct {
		name  string
		clock Clock
		want  time.Duration
	}{
		{"sudden death", Clock{Remaining: 90 * time.Second}, 2 * time.Second},
		{"moves to go", Clock{Remaining: 90 * time.Second, MovesToGo: 10}, 9 * time.Second},
		{"increment", Clock{Remaining: 90 * time.Second, Increment: time.Second}, 3 * time.Second},
		{"panic mode", Clock{Remaining: 500 * time.Millisecond, Increment: 100 * time.Millisecond}, 90 * time.Millisecond},
		{"nearly flagged", Clock{Remaining: 10 * time.Millisecond}, minMoveTime},
	}
	for _, tt := range tests {
		if got := tt.clock.Budget(start); got != tt.want {
			t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
		}
	}

	now := time.Now()
	if got := (Clock{Remaining: 90 * time.Second}).Deadline(now, start); !got.Equal(now.Add(2 * time.Second)) {
		t.Fatalf("Deadline = %v", got.Sub(now))
	}
}

func TestClockSpendsMoreInEndgames(t *testing.T) {
	c := Clock{Remaining: 60 * time.Second}
	opening := c.Budget(board.NewBoard())
	endgame := c.Budget(mustParse(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"))
	if endgame <= opening {
		t.Fatalf("endgame budget %v not above opening budget %v", endgame, opening)
	}
}

func TestScoreString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "cp 0"},
		{-135, "cp -135"},
		{MateScore - 1, "mate 1"},
		{MateScore - 3, "mate 2"},
		{MatedIn(2), "mate -1"},
		{MatedIn(4), "mate -2"},
		{TBWinScore, "cp 10000"},
		{-TBWinScore, "cp -10000"},
	}
	for _, tt := range tests {
		if got := ScoreString(tt.score); got != tt.want {
			t.Errorf("ScoreString(%d) = %q want %q", tt.score, got, tt.want)
		}
	}
	if !IsDecisive(TBWinScore) || !IsDecisive(-TBWinScore) || !IsDecisive(MatedIn(30)) || IsDecisive(5000) {
		t.Fatalf("IsDecisive misclassifies")
	}
	if TBWinScore >= mateBound {
		t.Fatalf("tablebase win %d reaches the mate band", TBWinScore)
	}
}

func TestStatsSummary(t *testing.T) {
	s := Stats{
		Nodes:  10,
		Depths: []int{4, 6},
		Times:  []time.Duration{time.Second, 3 * time.Second},
	}
	if s.AverageDepth() != 5 || s.AverageTime() != 2*time.Second {
		t.Fatalf("averages %v %v", s.AverageDepth(), s.AverageTime())
	}
	if (Stats{}).AverageDepth() != 0 || (Stats{}).AverageTime() != 0 {
		t.Fatalf("empty averages should be zero")
	}
	if !strings.Contains(s.String(), "average depth 5.00") {
		t.Fatalf("summary: %s", s.String())
	}

	var sb strings.Builder
	s.Log(zerolog.New(&sb))
	for _, key := range []string{`"nodes":10`, `"avg-depth":5`, `"message":"search-stats"`, `"cuts":{`} {
		if !strings.Contains(sb.String(), key) {
			t.Errorf("log line missing %s: %s", key, sb.String())
		}
	}

	c := s.clone()
	c.Depths[0] = 99
	if s.Depths[0] != 4 {
		t.Fatalf("clone shares the depth record")
	}
}

func TestLateMoveReductionDepth(t *testing.T) {
	tests := []struct {
		depth, n, want int
	}{
		{3, 4, 1},
		{3, 12, 1},
		{4, 9, 2},
		{4, 10, 1},
		{8, 15, 5},
	}
	for _, tt := range tests {
		if got := lmrDepth(tt.depth, tt.n); got != tt.want {
			t.Errorf("lmrDepth(%d, %d) = %d want %d", tt.depth, tt.n, got, tt.want)
		}
	}
}

func TestCutStatisticsString(t *testing.T) {
	c := CutStatistics{TTCutoffs: 3, QBetaCutoffs: 9}
	s := c.String()
	if strings.Contains(s, "\n") {
		t.Fatalf("want one line, got %q", s)
	}
	if !strings.Contains(s, "tt 3") || !strings.Contains(s, "q beta 9") {
		t.Fatalf("String() = %q", s)
	}
}
