package config

// Load 加载并绑定指定节的配置到结构体 T
// section 为空时绑定整个配置树。
func Load[T any](cfg Configuration, section string) (T, error) {
	var t T
	err := cfg.Bind(section, &t)
	return t, err
}
