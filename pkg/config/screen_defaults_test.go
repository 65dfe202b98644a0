package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestDefaultScreenSpawnerConfigMatchesShippedFile 像素默认配置与随程序发布的配置文件一致
func TestDefaultScreenSpawnerConfigMatchesShippedFile(t *testing.T) {
	shipped, err := LoadSpawnerConfig("../../data/spawner.yaml")
	if err != nil {
		t.Fatalf("Failed to load shipped config: %v", err)
	}

	got := DefaultScreenSpawnerConfig()
	if err := got.Validate(); err != nil {
		t.Fatalf("Screen defaults should be valid, got %v", err)
	}
	if diff := cmp.Diff(shipped, got); diff != "" {
		t.Errorf("Screen defaults drifted from data/spawner.yaml (-file +defaults):\n%s", diff)
	}
}

// TestDefaultScreenSpawnerConfigScale 像素默认配置的探测半径与内置敌人半径同一量级
func TestDefaultScreenSpawnerConfigScale(t *testing.T) {
	cfg := DefaultScreenSpawnerConfig()

	if cfg.Placement.ProbeRadius < 18 {
		t.Errorf("Expected probe radius to cover an 18px enemy, got %.1f", cfg.Placement.ProbeRadius)
	}
	if cfg.Placement.EdgeOffsetX > 0 {
		t.Errorf("Expected the spawn edge inside the screen, got offset %.1f", cfg.Placement.EdgeOffsetX)
	}
	if len(cfg.Lanes) != 5 || cfg.Lanes[0].Y != 122 || cfg.Lanes[4].Y != 522 {
		t.Errorf("Unexpected lane anchors %+v", cfg.Lanes)
	}

	// 每次返回新的副本
	cfg.Lanes[0].Y = 0
	if DefaultScreenSpawnerConfig().Lanes[0].Y != 122 {
		t.Error("Expected a fresh config on every call")
	}
}
