package powerflow

import (
	"fmt"

	"powergrid/types"
)

// 求解方法标识
const (
	MethodNewton       = "newton"
	MethodGaussSeidel  = "gauss"
	MethodFastDecouple = "fdlf"
)

// Solve 按方法标识分派潮流求解
func Solve(method string, net *types.NetworkGraph, in Input) (*Result, error) {
	switch method {
	case MethodNewton:
		return Newton(net, in)
	case MethodGaussSeidel:
		return GaussSeidel(net, in)
	case MethodFastDecouple:
		return FastDecoupled(net, in)
	}
	return nil, fmt.Errorf("%w: 未知求解方法: %q", ErrConfig, method)
}
