package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/spawner/pkg/app"
	"github.com/decker502/spawner/pkg/embedded"
)

var (
	configPath = flag.String("config", "data/spawner.yaml", "调度器配置文件路径")
	enemyStats = flag.String("enemies", "data/enemy_stats.yaml", "敌人属性文件路径")
	verbose    = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()

	// 初始化嵌入数据，配置文件不在磁盘上时使用
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		ConfigPath:     *configPath,
		EnemyStatsPath: *enemyStats,
	})
	if err != nil {
		log.Fatalf("演示程序初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("敌人生成调度器演示")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// Start the game loop
	// This will call Update() and Draw() repeatedly until the window is closed
	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
