package constants

// 文章字段默认值
const (
	DefaultPostTitle    = "Untitled"
	DefaultPostCategory = "Health"
	DefaultPostAuthor   = "EasyQ Team"
)

// 存储后端常量
const (
	StorageBackendFilesystem = "filesystem"
	StorageBackendDatabase   = "database"
)

// 页面路径常量，用于页面缓存与刷新
const (
	PageHome      = "/"
	PageBlogIndex = "/blog"
	PageBlogPost  = "/blog/"
)

// HomeLatestPostCount 首页展示的最新文章数量
const HomeLatestPostCount = 3

// 队列常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskRevalidatePages = "revalidate:pages"
)

// 上下文键常量
const (
	ContextKeyRequestID   = "request_id"
	ContextKeyAdminClaims = "admin_claims"
)
