package session

import (
	"errors"
	"math"
	"testing"

	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
)

func TestPaging(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	n := c.View().Available

	out := c.Dispatch(key("-", 0, 0))
	if len(out.Messages) == 0 || out.Messages[0] != "Edge of list" {
		t.Errorf("- at start: messages %v", out.Messages)
	}
	c.Dispatch(key("=", 0, 0))
	if got, want := c.View().Index, min(n-6, 6); got != want {
		t.Errorf("index after = is %d, want %d", got, want)
	}
	for range 5 {
		c.Dispatch(key("=", 0, 0))
	}
	out = c.Dispatch(key("=", 0, 0))
	if c.View().Index != n-6 || len(out.Messages) == 0 {
		t.Errorf("= at end: index %d messages %v", c.View().Index, out.Messages)
	}
	out = c.Dispatch(key("f", 0, 0))
	if c.View().Index != 0 || len(out.Messages) == 0 {
		t.Errorf("f: index %d messages %v", c.View().Index, out.Messages)
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()
	c := newTestController(t)

	for range 5 {
		c.Dispatch(key("k", 0, 0))
	}
	if v := c.View(); v.Rows != 1 {
		t.Errorf("rows = %d, want floor of 1", v.Rows)
	}
	out := c.Dispatch(key("C", 0, 0))
	if !out.ClearFigure || c.View().Cols != 3 {
		t.Errorf("C: clear=%v cols=%d", out.ClearFigure, c.View().Cols)
	}
	c.Dispatch(key("(", 0, 0))
	if v := c.View(); v.Rows != 5 || v.Cols != 3 || v.Preset != PresetOut {
		t.Errorf("( gave %dx%d %s", v.Rows, v.Cols, v.Preset)
	}
	c.Dispatch(key("(", 0, 0))
	if v := c.View(); v.Rows != 3 || v.Cols != 2 || v.Preset != PresetIn {
		t.Errorf("( back gave %dx%d %s", v.Rows, v.Cols, v.Preset)
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()
	c := newTestController(t)

	c.Dispatch(key("i", 0, 100))
	if got := c.View().XLim; got != [2]float64{-150, 350} {
		t.Errorf("i: xlim %v", got)
	}
	c.Dispatch(key("]", 0, 0))
	if got := c.View().XLim; got != [2]float64{350, 850} {
		t.Errorf("]: xlim %v", got)
	}
	c.Dispatch(key("W", 0, 0))
	if got := c.View().XLim; got != [2]float64{-500, 500} {
		t.Errorf("W: xlim %v", got)
	}
	if out := c.Dispatch(key("l", 0, 600)); !errors.Is(out.Err, ErrBadWindow) {
		t.Errorf("inverted l: err = %v", out.Err)
	}
	c.Dispatch(Command{Key: "t", Cursor: Cursor{Panel: 0, Flux: 1.5}})
	if got := c.View().YLim; got[1] != 1.5 {
		t.Errorf("t: ylim %v", got)
	}
	out := c.Dispatch(key("Y", 0, 0))
	if out.Err != nil || !out.Rescale {
		t.Fatalf("Y: %v", out.Err)
	}
	if got := c.View().YLim; got[0] > 0.5 || got[1] < 1 {
		t.Errorf("Y: ylim %v does not cover the data", got)
	}
}

func TestRedshiftChanges(t *testing.T) {
	t.Parallel()

	t.Run("space moves to cursor", func(t *testing.T) {
		t.Parallel()
		c := newTestController(t)
		c.Dispatch(key("i", 0, 0))
		out := c.Dispatch(key(" ", 0, 100))
		if out.Err != nil {
			t.Fatal(out.Err)
		}
		want := 2.3 + 100*3.3/spectrum.C
		if math.Abs(c.Redshift()-want) > 1e-12 {
			t.Errorf("z = %v, want %v", c.Redshift(), want)
		}
		if c.View().XLim != [2]float64{-500, 500} {
			t.Error("space did not reset the velocity window")
		}
	})

	t.Run("typed redshift", func(t *testing.T) {
		t.Parallel()
		c := newTestController(t)
		out := c.Dispatch(key("^", -1, 0))
		if c.State() != AwaitingEntry || out.Prompt == "" {
			t.Fatalf("state=%v prompt=%q", c.State(), out.Prompt)
		}
		c.Dispatch(Command{Key: "a"})
		if c.State() != AwaitingEntry {
			t.Fatal("typing left entry mode")
		}
		out = c.Dispatch(Command{Key: "enter", Text: " 2.31 "})
		if out.Err != nil || c.Redshift() != 2.31 || out.Prompt != "" {
			t.Errorf("err=%v z=%v prompt=%q", out.Err, c.Redshift(), out.Prompt)
		}
	})

	t.Run("rejected redshifts change nothing", func(t *testing.T) {
		t.Parallel()
		c := newTestController(t)
		for _, text := range []string{"abc", "10", "-1"} {
			c.Dispatch(key("^", -1, 0))
			out := c.Dispatch(Command{Key: "enter", Text: text})
			if out.Err == nil {
				t.Errorf("%q accepted", text)
			}
			if c.Redshift() != 2.3 || c.State() != Idle {
				t.Errorf("%q: z=%v state=%v", text, c.Redshift(), c.State())
			}
		}
		c.Dispatch(key("^", -1, 0))
		out := c.Dispatch(Command{Key: "enter", Text: "10"})
		if !errors.Is(out.Err, linelist.ErrNoTransitions) {
			t.Errorf("empty page: err = %v", out.Err)
		}
	})

	t.Run("identify transition", func(t *testing.T) {
		t.Parallel()
		c := newTestController(t)
		p := panel(t, c, "HI 1215")
		lya := c.Page()[p].Transition
		c.Dispatch(key("%", p, 0))
		out := c.Dispatch(Command{Key: "enter", Text: "CIV 1548"})
		if out.Err != nil {
			t.Fatal(out.Err)
		}
		want := lya.Observed(2.3)/1548.204 - 1
		if math.Abs(c.Redshift()-want) > 1e-9 {
			t.Errorf("z = %v, want %v", c.Redshift(), want)
		}
		if c.View().Available == 0 {
			t.Error("no transitions after identification")
		}
	})

	t.Run("line lists", func(t *testing.T) {
		t.Parallel()
		c := newTestController(t)
		c.Dispatch(key("H", 0, 0))
		v := c.View()
		if v.List != linelist.ListHI || v.Available != 1 {
			t.Errorf("H: list=%s available=%d", v.List, v.Available)
		}
		c.Dispatch(key("U", 0, 0))
		if c.View().List != linelist.ListISM {
			t.Error("U did not restore ISM")
		}
	})
}

