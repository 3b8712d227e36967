package main

import (
	"context"
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matt-g-everett/bubbletx/config"
	"github.com/matt-g-everett/bubbletx/indicator"
)

type testFlags struct {
	set    *flag.FlagSet
	colour *string
	style  *string
	radius *float64
	fps    *float64
	out    *string
}

func parseFlags(t *testing.T, args ...string) testFlags {
	t.Helper()
	var f testFlags
	f.set = flag.NewFlagSet("bubbletx", flag.ContinueOnError)
	f.set.SetOutput(io.Discard)
	f.colour = f.set.String("color", "", "")
	f.style = f.set.String("style", "", "")
	f.radius = f.set.Float64("radius", 0, "")
	f.fps = f.set.Float64("fps", 0, "")
	f.out = f.set.String("out", "", "")
	if err := f.set.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return f
}

func (f testFlags) apply(a *app) error {
	return a.applyFlags(f.set, *f.colour, *f.style, *f.out, *f.radius, *f.fps)
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	configured := config.Default()
	configured.Indicator.BubbleRadius = 6
	configured.Indicator.Color = indicator.RGBA255(255, 225, 26, 1)
	configured.FrameRate = 24

	green, err := indicator.ParseColor("#00ff00")
	if err != nil {
		t.Fatalf("ParseColor() error = %v", err)
	}

	tests := []struct {
		name string
		args []string
		want func(c *config.Config)
	}{
		{
			name: "no flags keep the config",
			want: func(*config.Config) {},
		},
		{
			name: "flags override the config",
			args: []string{"-color", "#00ff00", "-style", "beta", "-fps", "60", "-out", "beta.gif"},
			want: func(c *config.Config) {
				c.Indicator.Color = green
				c.Indicator.Style = indicator.Beta
				c.FrameRate = 60
				c.Output = "beta.gif"
			},
		},
		{
			name: "an explicit zero radius means the default",
			args: []string{"-radius", "0"},
			want: func(c *config.Config) {
				c.Indicator.BubbleRadius = 0
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := newApp(context.Background())
			a.Config = configured
			if err := parseFlags(t, tt.args...).apply(a); err != nil {
				t.Fatalf("applyFlags() error = %v", err)
			}

			want := configured
			tt.want(&want)
			if diff := cmp.Diff(want, a.Config); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFlagsErrors(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"-color", "nope"}, {"-style", "square"}} {
		a := newApp(context.Background())
		a.Config = config.Default()
		if err := parseFlags(t, args...).apply(a); err == nil {
			t.Errorf("applyFlags(%v) should fail", args)
		}
	}
}
