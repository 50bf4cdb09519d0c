package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：调用方错误或可降级的告警（例如照片缺失但导出继续）
// - 5xxx：系统错误（需要中断流程）
const (
	OK                = 0
	UnsupportedFormat = 4000
	CVNotFound        = 4040
	ResourceMissing   = 4004
	SystemError       = 5000
)
