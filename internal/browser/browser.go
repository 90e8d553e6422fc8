package browser

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

type Config struct {
	Name            string
	Headless        bool
	SlowMo          float64
	BaseURL         string
	MobileDevice    string
	ViewportWidth   int
	ViewportHeight  int
	BrowsersPath    string
	Timeout         time.Duration
	NavigateTimeout time.Duration
}

// ContextOptions - параметры конкретного сценария поверх общей конфигурации.
type ContextOptions struct {
	// Device перекрывает MOBILE_DEVICE (тег @device:<name>).
	Device           string
	VideoDir         string
	StorageStatePath string
}

// Manager владеет процессом playwright и общим браузером прогона.
// Контексты и страницы создаются на каждый сценарий.
type Manager struct {
	mu      sync.RWMutex
	cfg     Config
	pw      *playwright.Playwright
	browser playwright.Browser
}

func New(cfg Config) *Manager {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.NavigateTimeout == 0 {
		cfg.NavigateTimeout = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "chromium"
	}
	if cfg.ViewportWidth == 0 || cfg.ViewportHeight == 0 {
		cfg.ViewportWidth, cfg.ViewportHeight = 1280, 720
	}

	return &Manager{cfg: cfg}
}

func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) getBrowser() playwright.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// Browser возвращает запущенный браузер или nil.
func (m *Manager) Browser() playwright.Browser {
	return m.getBrowser()
}

func (m *Manager) getBrowserArgs() []string {
	if m.cfg.Name == "chromium" {
		return []string{"--no-sandbox"}
	}
	return nil
}

func (m *Manager) browserType(pw *playwright.Playwright) (playwright.BrowserType, error) {
	switch m.cfg.Name {
	case "chromium", "chrome":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit", "safari":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("неизвестный браузер %q (chromium, firefox, webkit)", m.cfg.Name)
	}
}

// Launch запускает playwright и браузер. Повторный вызов ничего не делает.
func (m *Manager) Launch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return nil
	}

	if m.cfg.BrowsersPath != "" {
		if err := os.Setenv("PLAYWRIGHT_BROWSERS_PATH", m.cfg.BrowsersPath); err != nil {
			return err
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("не удалось запустить playwright: %w", err)
	}

	bt, err := m.browserType(pw)
	if err != nil {
		_ = pw.Stop()
		return err
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Headless),
		Args:     m.getBrowserArgs(),
	}
	if m.cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(m.cfg.SlowMo)
	}

	b, err := bt.Launch(opts)
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("не удалось запустить %s: %w", m.cfg.Name, err)
	}

	m.pw = pw
	m.browser = b
	return nil
}

// NewContext создает изолированный контекст браузера для сценария.
func (m *Manager) NewContext(opts ContextOptions) (playwright.BrowserContext, error) {
	m.mu.RLock()
	b, pw := m.browser, m.pw
	m.mu.RUnlock()

	if b == nil || pw == nil {
		return nil, fmt.Errorf("браузер не запущен")
	}

	device := opts.Device
	if device == "" {
		device = m.cfg.MobileDevice
	}

	var descriptor *playwright.DeviceDescriptor
	if device != "" {
		d, err := LookupDevice(pw.Devices, device)
		if err != nil {
			return nil, err
		}
		descriptor = d
	}

	bc, err := b.NewContext(contextOptions(m.cfg, descriptor, opts))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать контекст браузера: %w", err)
	}
	return bc, nil
}

func contextOptions(cfg Config, device *playwright.DeviceDescriptor, opts ContextOptions) playwright.BrowserNewContextOptions {
	res := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
	}

	if device != nil {
		if device.Viewport != nil {
			res.Viewport = device.Viewport
		}
		if device.UserAgent != "" {
			res.UserAgent = playwright.String(device.UserAgent)
		}
		res.DeviceScaleFactor = playwright.Float(device.DeviceScaleFactor)
		res.IsMobile = playwright.Bool(device.IsMobile)
		res.HasTouch = playwright.Bool(device.HasTouch)
	}

	if cfg.BaseURL != "" {
		res.BaseURL = playwright.String(cfg.BaseURL)
	}

	if opts.VideoDir != "" {
		res.RecordVideo = &playwright.RecordVideo{
			Dir:  opts.VideoDir,
			Size: res.Viewport,
		}
	}

	if opts.StorageStatePath != "" {
		res.StorageStatePath = playwright.String(opts.StorageStatePath)
	}

	return res
}

// LookupDevice ищет дескриптор устройства без учета регистра.
func LookupDevice(devices map[string]*playwright.DeviceDescriptor, name string) (*playwright.DeviceDescriptor, error) {
	if d, ok := devices[name]; ok {
		return d, nil
	}
	for key, d := range devices {
		if strings.EqualFold(key, name) {
			return d, nil
		}
	}

	known := make([]string, 0, len(devices))
	for key := range devices {
		known = append(known, key)
	}
	sort.Strings(known)
	if len(known) > 5 {
		known = append(known[:5], "...")
	}
	return nil, fmt.Errorf("неизвестное устройство %q (например: %s)", name, strings.Join(known, ", "))
}

// NewPage открывает страницу в контексте и выставляет таймауты по умолчанию.
func (m *Manager) NewPage(bc playwright.BrowserContext) (playwright.Page, error) {
	page, err := bc.NewPage()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть страницу: %w", err)
	}
	page.SetDefaultTimeout(float64(m.cfg.Timeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(m.cfg.NavigateTimeout.Milliseconds()))
	return page, nil
}

// Navigate переходит по url и ждет события load не дольше timeout.
func Navigate(ctx context.Context, page playwright.Page, url string, timeout time.Duration) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return fmt.Errorf("таймаут перехода на %s после %v", url, timeout)
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("ошибка перехода на %s: %w", url, err)
		}
	}

	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			return err
		}
		m.browser = nil
	}
	if m.pw != nil {
		err := m.pw.Stop()
		m.pw = nil
		return err
	}
	return nil
}
