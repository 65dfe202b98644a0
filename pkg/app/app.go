// Package app 提供调度器演示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载配置、恢复已保存的参数、
// 组装实体管理器、敌人工厂与生成调度器，并实现 ebiten.Game 接口。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/embedded"
	"github.com/decker502/spawner/pkg/entities"
	"github.com/decker502/spawner/pkg/game"
	"github.com/decker502/spawner/pkg/systems"
)

// 窗口默认尺寸
const (
	WindowWidth  = 800
	WindowHeight = 600
)

// 运行时调整参数
const (
	burstSize       = 500
	capStep         = 25.0
	minCapPerSecond = 25.0
	maxEdgeSlots    = 32
	poolCapacity    = 2000
	gdataAppName    = "spawner_demo"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 调度器配置文件路径，磁盘上不存在时读取嵌入的同名文件
	ConfigPath string
	// EnemyStatsPath 敌人属性文件路径，规则同 ConfigPath
	EnemyStatsPath string
}

// App 是演示程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	settings *game.SpawnerSettingsManager

	entityManager *ecs.EntityManager
	factory       *entities.EnemyFactory
	movement      *systems.EnemyMovementSystem
	scheduler     *systems.AdmissionScheduler
	viewport      *screenViewport

	lanes      []config.LaneAnchorConfig
	enemyTypes []string // 批量入队使用的类型
	burst      int      // 已触发的批量入队次数，用于轮换出生点策略

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp 创建并初始化演示程序
//
// 调用此函数前，应先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	baseConfig, err := loadSpawnerConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("调度器配置加载失败: %w", err)
	}

	enemyTypes, err := loadEnemyTypes(cfg.EnemyStatsPath)
	if err != nil {
		return nil, fmt.Errorf("敌人属性加载失败: %w", err)
	}

	settings := game.NewSpawnerSettingsManager(game.OpenGdataManager(gdataAppName))
	tuned, err := settings.ApplyTo(baseConfig)
	if err != nil {
		log.Printf("[App] Warning: ignoring stored tuning: %v", err)
		tuned = baseConfig
	}

	em := ecs.NewEntityManager()
	factory := entities.NewEnemyFactory(em, enemyTypes, poolCapacity)
	viewport := &screenViewport{width: WindowWidth, height: WindowHeight}

	scheduler, err := systems.NewAdmissionScheduler(tuned, factory, systems.NewEntityWorld(factory.Index()), viewport)
	if err != nil {
		return nil, fmt.Errorf("调度器初始化失败: %w", err)
	}

	log.Printf("[App] Spawner ready: cap=%.0f/s, lanes=%d", tuned.RateLimit.CapPerSecond, len(tuned.Lanes))

	return &App{
		settings:      settings,
		entityManager: em,
		factory:       factory,
		movement:      systems.NewEnemyMovementSystem(em, factory, 0),
		scheduler:     scheduler,
		viewport:      viewport,
		lanes:         tuned.Lanes,
		enemyTypes:    availableBurstTypes(factory),
	}, nil
}

// readDataFile 优先读取磁盘文件，不存在时读取嵌入数据
func readDataFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || !embedded.Exists(path) {
		return nil, err
	}
	log.Printf("[App] Loading embedded %s", path)
	return embedded.ReadFile(path)
}

// loadSpawnerConfig 加载调度器配置，文件不存在时使用屏幕坐标的默认配置
func loadSpawnerConfig(path string) (*config.SpawnerConfig, error) {
	if path == "" {
		return config.DefaultScreenSpawnerConfig(), nil
	}
	data, err := readDataFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[App] %s not found, using default spawner config", path)
		return config.DefaultScreenSpawnerConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return config.ParseSpawnerConfig(data)
}

// loadEnemyTypes 加载敌人类型表，文件不存在时使用内置类型
func loadEnemyTypes(path string) (map[string]entities.EnemyTypeConfig, error) {
	if path == "" {
		return entities.DefaultEnemyTypes(), nil
	}
	data, err := readDataFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[App] %s not found, using built-in enemy types", path)
		return entities.DefaultEnemyTypes(), nil
	}
	if err != nil {
		return nil, err
	}
	stats, err := config.ParseEnemyStats(data)
	if err != nil {
		return nil, err
	}
	return entities.EnemyTypesFromStats(stats), nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleInput()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.scheduler.Update(deltaTime)
	a.movement.Update(deltaTime)
	return nil
}

// handleInput 处理快捷键
//
//	B      批量入队 burstSize 个请求
//	R      开始新一局
//	+ / -  调整速率上限并保存
//	[ / ]  减少 / 增加出生边槽位
//	F11    切换全屏
func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.enqueueBurst()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.scheduler.ResetForNewRun()
		a.factory.Reset()
		log.Printf("[App] New run started")
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		a.adjustCap(capStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		a.adjustCap(-capStep)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		a.adjustSlots(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		a.adjustSlots(1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			// 退出全屏后等待几帧再恢复窗口大小
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}
}

// adjustCap 调整速率上限并持久化
func (a *App) adjustCap(delta float64) {
	next := a.scheduler.GetStats().CapPerSecond + delta
	if next < minCapPerSecond {
		next = minCapPerSecond
	}
	if err := a.scheduler.SetCapPerSecond(next); err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}

	a.settings.SetCapPerSecond(next)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to persist cap: %v", err)
	}
	log.Printf("[App] Cap per second set to %.0f", next)
}

// adjustSlots 调整出生边槽位数量，范围 [1, maxEdgeSlots]
func (a *App) adjustSlots(delta int) {
	n := min(max(a.scheduler.EdgeSlots().Len()+delta, 1), maxEdgeSlots)
	if err := a.scheduler.ResizeEdgeSlots(n); err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}
	log.Printf("[App] Edge slots set to %d", n)
}

// enqueueBurst 一次性入队 burstSize 个请求，每次按下轮换一种出生点策略
func (a *App) enqueueBurst() {
	n := enqueueMixedBurst(a.scheduler, a.lanes, a.enemyTypes, a.burst, burstSize)
	log.Printf("[App] Burst #%d: enqueued %d requests", a.burst, n)
	a.burst++
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 28, B: 36, A: 255})
	drawSpawnEdge(screen, a.scheduler)
	drawEnemies(screen, a.entityManager)
	drawStats(screen, a.scheduler, a.factory)
}

// Layout 返回逻辑屏幕尺寸，窗口尺寸变化时通知调度器重新计算出生边
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return WindowWidth, WindowHeight
	}
	if a.viewport.resize(float64(outsideWidth), float64(outsideHeight)) {
		a.scheduler.HandleResize()
	}
	return outsideWidth, outsideHeight
}
