package main

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/litmap/pkg/config"
	"github.com/vanderheijden86/litmap/pkg/timeline"
)

func TestTimelineModeParsing(t *testing.T) {
	if timelineMode("cumulative") != timeline.ModeCumulative {
		t.Error("cumulative must map to ModeCumulative")
	}
	if timelineMode("Cumulative") != timeline.ModeCumulative {
		t.Error("mode parsing must be case-insensitive")
	}
	if timelineMode("yearly") != timeline.ModeYearly {
		t.Error("yearly must map to ModeYearly")
	}
	if timelineMode("") != timeline.ModeYearly {
		t.Error("empty mode must default to yearly")
	}
	if timelineMode("bogus") != timeline.ModeYearly {
		t.Error("unknown mode must default to yearly")
	}
}

func TestDefaultExportPath(t *testing.T) {
	cfg := config.DefaultConfig()
	path := defaultExportPath(cfg, nil)
	if !strings.HasPrefix(path, "litmap-") || !strings.HasSuffix(path, ".svg") {
		t.Errorf("default path = %q", path)
	}

	cfg.Export.Dir = "/tmp/exports"
	cfg.Export.Format = "png"
	path = defaultExportPath(cfg, nil)
	if !strings.HasPrefix(path, "/tmp/exports/") || !strings.HasSuffix(path, ".png") {
		t.Errorf("configured path = %q", path)
	}
}

func TestDefaultFormatExt(t *testing.T) {
	cfg := config.DefaultConfig()
	if defaultFormatExt(cfg) != "svg" {
		t.Error("svg config must yield svg extension")
	}
	cfg.Export.Format = "all"
	if defaultFormatExt(cfg) != "svg" {
		t.Error("all must fall back to svg for the suggested name")
	}
	cfg.Export.Format = "png"
	if defaultFormatExt(cfg) != "png" {
		t.Error("png config must yield png extension")
	}
}
