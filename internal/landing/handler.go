package landing

import (
	"crypto/subtle"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const (
	ErrInvalidCredentials = "Invalid credentials. Access denied."
	ErrTooManyAttempts    = "Too many attempts. Please try again later."

	gateMaxAttempts = 5
	gateWindow      = time.Minute
)

const localeKey = "landing_locale"

// NewEngine gömülü views klasörünü html/template motoruna bağlar.
func NewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	return html.NewFileSystem(http.FS(sub), ".html"), nil
}

// NewApp tanıtım sitesinin tüm route'larını kurar. middleware route'lardan önce eklenir.
func NewApp(cfg *config.Config, middleware ...fiber.Handler) (*fiber.App, error) {
	catalogs, err := LoadCatalogs()
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler(cfg, catalogs),
	})
	for _, m := range middleware {
		app.Use(m)
	}
	Register(app, cfg, catalogs)
	return app, nil
}

func Register(app *fiber.App, cfg *config.Config, catalogs Catalogs) {
	app.Get("/", RootHandler(cfg, catalogs))
	app.Get("/api/content/:locale", withLocale(catalogs), ContentHandler(catalogs))

	app.Get("/:locale", withLocale(catalogs), PageHandler(catalogs))
	app.Get("/:locale/login", withLocale(catalogs), LoginPageHandler(catalogs))
	app.Post("/:locale/login",
		withLocale(catalogs),
		limiter.New(limiter.Config{
			Max:          gateMaxAttempts,
			Expiration:   gateWindow,
			KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
			LimitReached: func(c *fiber.Ctx) error {
				logger.GetAppLogger().WithField("ip", c.IP()).Warn("Giriş kapısı deneme sınırı aşıldı")
				return renderLogin(c, catalogs, fiber.StatusTooManyRequests, c.FormValue("email"), ErrTooManyAttempts)
			},
		}),
		GateLoginHandler(cfg, catalogs),
	)
}

// ErrorHandler sayfa isteklerindeki 404'ü HTML olarak render eder.
// /api altındaki istekler ve diğer hatalar JSON döner.
func ErrorHandler(cfg *config.Config, catalogs Catalogs) fiber.ErrorHandler {
	fallback := defaultLocale(cfg, catalogs)
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if strings.HasPrefix(c.Path(), "/api/") || !errors.As(err, &fe) || fe.Code != fiber.StatusNotFound {
			return apperr.Handler(c, err)
		}

		// /ar/olmayan-sayfa Arapça 404 gösterir
		locale := fallback
		seg := strings.ToLower(strings.SplitN(strings.TrimPrefix(c.Path(), "/"), "/", 2)[0])
		if _, ok := catalogs[seg]; ok {
			locale = seg
		}
		c.Locals(localeKey, locale)
		return c.Status(fiber.StatusNotFound).Render("notfound", viewData(c, catalogs, "notFound.title"))
	}
}

func defaultLocale(cfg *config.Config, catalogs Catalogs) string {
	if _, ok := catalogs[cfg.DefaultLocale]; ok {
		return cfg.DefaultLocale
	}
	return "en"
}

// withLocale bilinmeyen dil kodunu 404 ile reddeder.
func withLocale(catalogs Catalogs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := strings.ToLower(c.Params("locale"))
		if _, ok := catalogs[locale]; !ok {
			return fiber.NewError(fiber.StatusNotFound, "Sayfa bulunamadı")
		}
		c.Locals(localeKey, locale)
		return c.Next()
	}
}

func currentLocale(c *fiber.Ctx) string {
	l, _ := c.Locals(localeKey).(string)
	return l
}

func viewData(c *fiber.Ctx, catalogs Catalogs, titleKey string) fiber.Map {
	locale := currentLocale(c)
	cat := catalogs[locale]
	return fiber.Map{
		"Locale":  locale,
		"Dir":     Dir(locale),
		"Locales": catalogs.Locales(),
		"Msg":     cat,
		"Title":   cat.Text(titleKey),
	}
}

// GET /
func RootHandler(cfg *config.Config, catalogs Catalogs) fiber.Handler {
	locale := defaultLocale(cfg, catalogs)
	return func(c *fiber.Ctx) error {
		return c.Redirect("/"+locale, fiber.StatusFound)
	}
}

// GET /:locale
func PageHandler(catalogs Catalogs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("index", viewData(c, catalogs, "hero.title"))
	}
}

// GET /:locale/login
func LoginPageHandler(catalogs Catalogs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderLogin(c, catalogs, fiber.StatusOK, "", "")
	}
}

func renderLogin(c *fiber.Ctx, catalogs Catalogs, status int, email, errMsg string) error {
	data := viewData(c, catalogs, "login.title")
	data["Email"] = email
	data["Error"] = errMsg
	return c.Status(status).Render("login", data)
}

// POST /:locale/login
// Tanımlı e-posta ve şifre eşleşirse panelin giriş sayfasına e-postayla yönlendirir.
// Asıl kimlik doğrulama panelde yapılır.
func GateLoginHandler(cfg *config.Config, catalogs Catalogs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.FormValue("email"))
		password := c.FormValue("password")

		emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(cfg.GateEmail)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.GatePassword)) == 1
		if !emailOK || !passOK || cfg.GatePassword == "" {
			logger.GetAppLogger().WithField("ip", c.IP()).Warn("Giriş kapısında hatalı deneme")
			return renderLogin(c, catalogs, fiber.StatusUnauthorized, email, ErrInvalidCredentials)
		}

		target := strings.TrimRight(cfg.DashboardURL, "/") + "/login?email=" + url.QueryEscape(email)
		return c.Redirect(target, fiber.StatusSeeOther)
	}
}

// GET /api/content/:locale
func ContentHandler(catalogs Catalogs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := currentLocale(c)
		return c.JSON(fiber.Map{
			"locale":   locale,
			"dir":      Dir(locale),
			"messages": catalogs[locale],
		})
	}
}
