package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/assets"
	"github.com/ivlev/storyrig/internal/config"
	"github.com/ivlev/storyrig/internal/engine"
	"github.com/ivlev/storyrig/internal/render"
	"github.com/ivlev/storyrig/internal/system"
	"github.com/ivlev/storyrig/internal/timeline"
)

// buildVersion is set with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

func main() {
	system.InitResourceLimits()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("[-] Ошибка конфигурации: %v", err)
	}
	cfg.BuildVersion = buildVersion

	flag.StringVar(&cfg.TimelinePath, "timeline", cfg.TimelinePath, "Путь к таймлайну YAML/JSON (по умолчанию: самый свежий файл в "+cfg.TimelineDir+")")
	flag.StringVar(&cfg.AssetsPath, "assets", cfg.AssetsPath, "YAML с метаданными ассетов (по умолчанию: встроенный набор)")
	flag.StringVar(&cfg.AudioPath, "audio", cfg.AudioPath, "Путь к озвучке (по умолчанию: самый свежий файл в "+cfg.AudioDir+")")
	audioSync := flag.Bool("audio-sync", true, "Ограничить рендер длительностью озвучки")
	flag.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Каталог для кадров и отчетов")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Ширина (если не задана в таймлайне)")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Высота (если не задана в таймлайне)")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "FPS (если не задан в таймлайне)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Потоки (0 - по числу ядер)")
	flag.StringVar(&cfg.Effects, "effects", cfg.Effects, "Пресет эффектов: none, subtle, painted, storybook, cinematic")
	flag.StringVar(&cfg.Mood, "mood", cfg.Mood, "Цветовое настроение поверх сцен: warm, cool, golden-hour, night, dreamy, sepia")
	flag.IntVar(&cfg.From, "from", cfg.From, "Первый кадр")
	flag.IntVar(&cfg.To, "to", cfg.To, "Кадр после последнего (0 - конец таймлайна)")
	flag.BoolVar(&cfg.Commands, "commands", cfg.Commands, "Писать списки команд отрисовки вместо деревьев")
	flag.BoolVar(&cfg.AllowOverlap, "allow-overlap", cfg.AllowOverlap, "Разрешить пересекающиеся сцены (побеждает более поздняя)")
	flag.BoolVar(&cfg.ShowStats, "stats", cfg.ShowStats, "Показать отчет о производительности")
	postFilters := flag.Bool("post-filters", true, "Записать post_filters.txt для FFmpeg")
	verbose := flag.Bool("v", false, "Подробный лог")

	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := cfg.ApplyPreset(); err != nil {
		logrus.Fatalf("[-] %v", err)
	}

	if cfg.TimelinePath == "" {
		latest, err := timeline.FindLatest(cfg.TimelineDir)
		if err != nil {
			logrus.Fatalf("[-] Ошибка: %v. Положите таймлайн в %s/", err, cfg.TimelineDir)
		}
		cfg.TimelinePath = latest
		fmt.Printf("[*] Выбран таймлайн: %s\n", cfg.TimelinePath)
	}

	read := timeline.Read
	if cfg.AllowOverlap {
		read = timeline.ReadUnchecked
	}
	tl, err := read(cfg.TimelinePath)
	if err != nil {
		logrus.Fatalf("[-] Ошибка чтения таймлайна: %v", err)
	}
	if tl.Width == 0 || tl.Height == 0 || cfg.Preset != "" {
		tl.Width, tl.Height = cfg.Width, cfg.Height
	}
	if tl.FPS == 0 {
		tl.FPS = cfg.FPS
	}

	reg := assets.Defaults()
	if cfg.AssetsPath != "" {
		if err := reg.LoadMetadata(cfg.AssetsPath); err != nil {
			logrus.Fatalf("[-] Ошибка чтения ассетов: %v", err)
		}
	}
	renderer := render.New(reg)
	if err := renderer.Check(tl); err != nil {
		logrus.Fatalf("[-] Ошибка таймлайна: %v", err)
	}

	if cfg.AudioPath == "" {
		if latest, err := system.FindLatestAudio(cfg.AudioDir); err == nil {
			cfg.AudioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", cfg.AudioPath)
		}
	}
	if cfg.AudioPath != "" && *audioSync && cfg.To == 0 {
		seconds, err := system.AudioDuration(cfg.AudioPath)
		if err != nil {
			logrus.Warnf("[!] Не удалось получить длительность аудио: %v", err)
		} else {
			cfg.To = engine.FramesFor(seconds, tl.FPS)
			fmt.Printf("[*] Длительность установлена по аудио: %.2fs (%d кадров)\n", seconds, cfg.To)
		}
	}

	w, h := tl.Canvas()
	fmt.Println("--- [PROJECT: STORYRIG] ---")
	fmt.Printf("[*] Таймлайн: %s | Сцен: %d | Кадров: %d\n", cfg.TimelinePath, len(tl.Scenes), tl.End())
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Эффекты: %s\n", w, h, tl.FPS, cfg.Effects)
	fmt.Println("---------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewProject(cfg, tl, renderer)
	stats, err := project.Run(ctx)
	if err != nil {
		logrus.Fatalf("[-] Ошибка рендера: %v", err)
	}

	if *postFilters {
		path, err := project.WritePostScript()
		if err != nil {
			logrus.Warnf("[!] Не удалось записать фильтры: %v", err)
		} else {
			fmt.Printf("[*] Фильтры FFmpeg: %s\n", path)
		}
	}

	fmt.Printf("[+++] Успех! %d кадров в %s\n", stats.Frames, project.FramesDir())
}
