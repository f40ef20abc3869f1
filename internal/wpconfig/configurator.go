package wpconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"github.com/eugenenazirov/wpenv/internal/envsource"
	"github.com/eugenenazirov/wpenv/internal/layout"
	"github.com/eugenenazirov/wpenv/internal/registry"
)

// Configurator publishes WordPress constants from an environment.
type Configurator struct {
	logger        *zap.Logger
	registry      *registry.Registry
	hooks         []Hook
	dotenvFiles   []string
	localOverride bool
	openFS        func(basePath string) billy.Filesystem
}

// Option configures a Configurator.
type Option func(*Configurator)

// WithLogger sets the logger used to report skipped constants.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Configurator) {
		c.logger = logger
	}
}

// WithRegistry publishes into reg instead of a fresh registry. Constants
// already defined in reg are kept.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Configurator) {
		c.registry = reg
	}
}

// WithHook adds a hook run after the local override, in registration order.
func WithHook(h Hook) Option {
	return func(c *Configurator) {
		c.hooks = append(c.hooks, h)
	}
}

// WithDotenvFiles replaces the dotenv files read from the base path.
func WithDotenvFiles(names ...string) Option {
	return func(c *Configurator) {
		c.dotenvFiles = names
	}
}

// WithoutLocalOverride disables the wp-config.local.yaml hook.
func WithoutLocalOverride() Option {
	return func(c *Configurator) {
		c.localOverride = false
	}
}

// WithFilesystem overrides how the base path is opened, primarily for tests.
func WithFilesystem(open func(basePath string) billy.Filesystem) Option {
	return func(c *Configurator) {
		c.openFS = open
	}
}

// New creates a Configurator.
func New(opts ...Option) *Configurator {
	c := &Configurator{
		logger:        zap.NewNop(),
		registry:      registry.New(),
		dotenvFiles:   []string{envsource.DefaultDotenvFile},
		localOverride: true,
		openFS: func(basePath string) billy.Filesystem {
			return osfs.New(basePath)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry constants are published into.
func (c *Configurator) Registry() *registry.Registry {
	return c.registry
}

// Result describes one configuration pass.
type Result struct {
	Registry   *registry.Registry
	Source     *envsource.Source
	Layout     layout.Layout
	BasePath   string
	PublicPath string
	// Defined lists constants published by this pass, Skipped those that
	// were already defined.
	Defined []string
	Skipped []string
}

// Configure resolves every constant for the installation at basePath.
// environ is the process environment as KEY=VALUE pairs and req, when not
// nil, is the inbound request whose server variables may be adjusted.
// Errors from the dotenv loader and from hooks are returned unchanged in kind.
func (c *Configurator) Configure(basePath string, environ []string, req *Request) (*Result, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, ErrEmptyBasePath
	}
	basePath, err := filepath.Abs(normalizePath(basePath))
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}
	root := c.openFS(basePath)
	l := layout.Probe(root)

	src, err := envsource.Load(root, environ, c.dotenvFiles...)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	hooks := c.hooks
	if c.localOverride {
		hooks = append([]Hook{LocalOverride}, hooks...)
	}
	for _, hook := range hooks {
		if err := hook(root, src); err != nil {
			return nil, fmt.Errorf("run configuration hook: %w", err)
		}
	}

	p := &pass{reg: c.registry, src: src, logger: c.logger}
	res := &Result{
		Registry: c.registry,
		Source:   src,
		Layout:   l,
		BasePath: basePath,
	}
	res.PublicPath = p.resolve(basePath, l)

	if ApplyForwardedProto(req) {
		c.logger.Debug("forwarded protocol is https, marking request secure")
	}

	res.Defined = p.defined
	res.Skipped = p.skipped
	c.logger.Info("wordpress configuration resolved",
		zap.String("base_path", basePath),
		zap.Stringer("layout", l),
		zap.Int("defined", len(p.defined)),
		zap.Int("skipped", len(p.skipped)),
	)
	return res, nil
}

// pass carries the state of a single Configure call.
type pass struct {
	reg     *registry.Registry
	src     *envsource.Source
	logger  *zap.Logger
	defined []string
	skipped []string
}

func (p *pass) define(name string, value any) {
	if p.reg.Define(name, value) {
		p.defined = append(p.defined, name)
		return
	}
	p.skipped = append(p.skipped, name)
	p.logger.Debug("constant already defined", zap.String("name", name))
}

func (p *pass) get(key string) (string, bool) {
	return p.src.Get(key)
}

func (p *pass) str(key, fallback string) string {
	return p.src.GetDefault(key, fallback)
}

func (p *pass) boolean(key string, fallback bool) bool {
	return ParseBool(p.src.GetDefault(key, strconv.FormatBool(fallback)))
}

func (p *pass) integer(key string, fallback int) int {
	v, ok := p.src.Get(key)
	if !ok {
		return fallback
	}
	return ParseInt(v)
}

// stringConst reads back a published string, falling back when a
// pre-defined value has another type.
func (p *pass) stringConst(name, fallback string) string {
	if v, err := p.reg.String(name); err == nil {
		return v
	}
	return fallback
}

// resolve publishes every constant and returns the public path.
func (p *pass) resolve(basePath string, l layout.Layout) string {
	p.define(EnvironmentType, environmentType(p.src))

	publicDir := p.str("APP_PUBLIC_DIR", l.PublicDir())
	publicPath := normalizePath(filepath.Join(basePath, publicDir))

	p.resolveDebug()
	p.resolveDatabase()
	for _, salt := range Salts {
		p.define(salt, p.str(salt, ""))
	}
	p.resolveMisc()
	p.resolvePaths(basePath, publicDir, publicPath, l)
	p.resolveMultisite()

	return publicPath
}

func environmentType(src *envsource.Source) string {
	env, ok := src.Get("APP_ENV")
	if !ok || strings.TrimSpace(env) == "" {
		return DefaultEnvironment
	}
	switch env {
	case "dev":
		return "development"
	case "prod":
		return "production"
	default:
		return env
	}
}

func (p *pass) resolveDebug() {
	debug, ok := p.get("WP_DEBUG")
	if !ok {
		debug, _ = p.get("APP_DEBUG")
	}
	p.define(Debug, ParseBool(debug))
	p.define(DebugLog, ParseBool(p.str("WP_DEBUG_LOG", debug)))
	p.define(DebugDisplay, ParseBool(p.str("WP_DEBUG_DISPLAY", debug)))
	p.define(ScriptDebug, ParseBool(p.str("SCRIPT_DEBUG", debug)))
}

func (p *pass) resolveDatabase() {
	p.define(DBName, p.str("DB_DATABASE", ""))
	p.define(DBUser, p.str("DB_USERNAME", ""))
	p.define(DBPassword, p.str("DB_PASSWORD", ""))
	p.define(DBHost, dbHost(p.str("DB_HOST", ""), p.str("DB_PORT", "")))
	p.define(DBCharset, p.str("DB_CHARSET", DefaultDBCharset))
	p.define(DBCollate, p.str("DB_COLLATE", DefaultDBCollate))
	p.define(TablePrefix, p.str("DB_PREFIX", DefaultTablePrefix))
}

func dbHost(host, port string) string {
	if host == "" {
		return DefaultDBHost
	}
	if port == "" {
		return host
	}
	return host + ":" + port
}

func (p *pass) resolveMisc() {
	p.define(EmptyTrashDays, p.integer("EMPTY_TRASH_DAYS", DefaultTrashDays))
	p.define(AutoUpdateCore, p.str("WP_AUTO_UPDATE_CORE", DefaultAutoUpdate))
	p.define(PostRevisions, p.integer("WP_POST_REVISIONS", DefaultRevisions))
	p.define(ImageEditOverwrite, p.boolean("IMAGE_EDIT_OVERWRITE", true))
	p.define(DisallowFileEdit, p.boolean("DISALLOW_FILE_EDIT", true))

	// File modifications are only locked down once installation is
	// explicitly finished; an undefined WP_INSTALLING does not count.
	if installing, err := p.reg.Bool(Installing); err == nil && !installing {
		p.define(DisallowFileMods, p.boolean("DISALLOW_FILE_MODS", false))
	}

	p.define(DisableCron, p.boolean("DISABLE_WP_CRON", false))
	p.define(DisableFatalErrorHandler, p.boolean("WP_DISABLE_FATAL_ERROR_HANDLER", false))
	p.define(Cache, p.boolean("WP_CACHE", true))
}

func (p *pass) resolvePaths(basePath, publicDir, publicPath string, l layout.Layout) {
	p.define(CoreDir, p.str("APP_WP_DIR", l.CoreDir()))
	coreDir := p.stringConst(CoreDir, l.CoreDir())

	home, ok := p.get("APP_URL")
	if !ok {
		home = DefaultHome
	}
	p.define(Home, home)
	home = p.stringConst(Home, home)
	p.define(SiteURL, joinURL(home, coreDir))

	contentDir := strings.Trim(strings.TrimSpace(p.str("APP_WP_PUBLIC_DIR", l.ContentDir())), "/")
	p.define(ContentDir, normalizePath(filepath.Join(publicPath, contentDir)))
	p.define(ContentURL, joinURL(home, contentDir))

	abs := normalizePath(filepath.Join(basePath, publicDir, coreDir))
	if !strings.HasSuffix(abs, string(filepath.Separator)) {
		abs += string(filepath.Separator)
	}
	p.define(AbsPath, abs)
}

func (p *pass) resolveMultisite() {
	p.define(AllowMultisite, p.boolean("WP_ALLOW_MULTISITE", false))
	p.define(Multisite, p.boolean("MULTISITE", false))

	if enabled, err := p.reg.Bool(Multisite); err != nil || !enabled {
		return
	}
	p.define(DomainCurrentSite, p.str("DOMAIN_CURRENT_SITE", ""))
	p.define(NoBlogRedirect, p.str("NOBLOGREDIRECT", DefaultBlogRedir))
	p.define(SubdomainInstall, p.boolean("SUBDOMAIN_INSTALL", false))
	p.define(PathCurrentSite, p.str("PATH_CURRENT_SITE", ""))
	p.define(SiteIDCurrentSite, p.integer("SITE_ID_CURRENT_SITE", 1))
	p.define(BlogIDCurrentSite, p.integer("BLOG_ID_CURRENT_SITE", 1))
	p.define(DefaultTheme, p.str("WP_DEFAULT_THEME", DefaultThemeName))
}

// joinURL appends a directory to a base URL, returning base unchanged when
// the directory is the root.
func joinURL(base, dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + dir
}

func normalizePath(p string) string {
	return filepath.Clean(filepath.FromSlash(strings.ReplaceAll(p, `\`, "/")))
}
