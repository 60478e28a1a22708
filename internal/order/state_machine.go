package order

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition 状态流转不被状态机允许。
var ErrInvalidTransition = errors.New("invalid order status transition")

// AllowTransition 定义订单状态机的允许流转关系。
// 业务流是单向的：pending -> shipped -> delivered，
// 任何非终态均可直接取消；终态不再流转。
var AllowTransition = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对订单应用状态变更。
// 仅校验流转合法性并落状态，不做任何派生指标计算。
func ApplyTransition(o *Order, to Status) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}
	if !to.Valid() {
		return fmt.Errorf("unknown order status: %s", to)
	}
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}
