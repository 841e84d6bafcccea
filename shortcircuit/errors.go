// Package shortcircuit 实现 IEC 60909 短路电流计算。
// 从 Z-bus 读取故障点戴维南等效阻抗，按故障类型组合序阻抗，
// 输出初始对称短路电流及其派生量（峰值、热效应、开断、容量）。
package shortcircuit

import "errors"

// ErrConfig 配置错误（缺少序阻抗数据、未知故障节点、参数非法），调用立即失败
var ErrConfig = errors.New("短路配置错误")

// ErrDegenerate 数值退化（Y-bus奇异、等效阻抗为零、序阻抗组合分母为零）
var ErrDegenerate = errors.New("短路数值退化")
