package logging

// NewLogger 创建一个默认的控制台 Logger（便于测试和 Bootstrap 前使用）
func NewLogger() Logger {
	f, err := NewBuilder().AddConsole().Build()
	if err != nil {
		// 纯控制台配置不会失败
		panic(err)
	}
	return f.CreateLogger("default")
}
