package wpconfig

// Names of the published constants.
const (
	EnvironmentType = "WP_ENVIRONMENT_TYPE"

	Debug        = "WP_DEBUG"
	DebugLog     = "WP_DEBUG_LOG"
	DebugDisplay = "WP_DEBUG_DISPLAY"
	ScriptDebug  = "SCRIPT_DEBUG"

	DBName      = "DB_NAME"
	DBUser      = "DB_USER"
	DBPassword  = "DB_PASSWORD"
	DBHost      = "DB_HOST"
	DBCharset   = "DB_CHARSET"
	DBCollate   = "DB_COLLATE"
	TablePrefix = "table_prefix"

	AuthKey        = "AUTH_KEY"
	SecureAuthKey  = "SECURE_AUTH_KEY"
	LoggedInKey    = "LOGGED_IN_KEY"
	NonceKey       = "NONCE_KEY"
	AuthSalt       = "AUTH_SALT"
	SecureAuthSalt = "SECURE_AUTH_SALT"
	LoggedInSalt   = "LOGGED_IN_SALT"
	NonceSalt      = "NONCE_SALT"

	EmptyTrashDays           = "EMPTY_TRASH_DAYS"
	AutoUpdateCore           = "WP_AUTO_UPDATE_CORE"
	PostRevisions            = "WP_POST_REVISIONS"
	ImageEditOverwrite       = "IMAGE_EDIT_OVERWRITE"
	DisallowFileEdit         = "DISALLOW_FILE_EDIT"
	DisallowFileMods         = "DISALLOW_FILE_MODS"
	DisableCron              = "DISABLE_WP_CRON"
	DisableFatalErrorHandler = "WP_DISABLE_FATAL_ERROR_HANDLER"
	Cache                    = "WP_CACHE"
	Installing               = "WP_INSTALLING"

	CoreDir    = "APP_WP_DIR"
	Home       = "WP_HOME"
	SiteURL    = "WP_SITEURL"
	ContentDir = "WP_CONTENT_DIR"
	ContentURL = "WP_CONTENT_URL"
	AbsPath    = "ABSPATH"

	AllowMultisite    = "WP_ALLOW_MULTISITE"
	Multisite         = "MULTISITE"
	DomainCurrentSite = "DOMAIN_CURRENT_SITE"
	NoBlogRedirect    = "NOBLOGREDIRECT"
	SubdomainInstall  = "SUBDOMAIN_INSTALL"
	PathCurrentSite   = "PATH_CURRENT_SITE"
	SiteIDCurrentSite = "SITE_ID_CURRENT_SITE"
	BlogIDCurrentSite = "BLOG_ID_CURRENT_SITE"
	DefaultTheme      = "WP_DEFAULT_THEME"
)

// Salts lists the eight authentication keys and salts.
var Salts = []string{
	AuthKey, SecureAuthKey, LoggedInKey, NonceKey,
	AuthSalt, SecureAuthSalt, LoggedInSalt, NonceSalt,
}

// MultisiteSettings lists the constants only published for multisite networks.
var MultisiteSettings = []string{
	DomainCurrentSite, NoBlogRedirect, SubdomainInstall, PathCurrentSite,
	SiteIDCurrentSite, BlogIDCurrentSite, DefaultTheme,
}

// Defaults.
const (
	DefaultEnvironment = "production"
	DefaultDBHost      = "127.0.0.1:3306"
	DefaultDBCharset   = "utf8mb4"
	DefaultDBCollate   = "utf8mb4_unicode_ci"
	DefaultTablePrefix = "wp_"
	DefaultHome        = "http://127.0.0.1:8000"
	DefaultTrashDays   = 7
	DefaultAutoUpdate  = "minor"
	DefaultRevisions   = 2
	DefaultBlogRedir   = "%siteurl%"
	DefaultThemeName   = "twentytwentyone"
	LocalOverrideFile  = "wp-config.local.yaml"
)
