package core

// Option 在构建阶段对 Runtime 做一次配置或注册，
// 各功能包（logging、config、web 等）都以此为唯一扩展点
type Option func(rt *Runtime) error
