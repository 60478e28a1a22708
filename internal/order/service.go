package order

import (
	"context"
	"fmt"
	"strings"
)

// TerminalHook 订单进入终态（delivered / cancelled）后触发的回调。
// 典型实现是客户信誉重算；pending / shipped 流转不会触发。
type TerminalHook interface {
	OnTerminal(ctx context.Context, customerID string) error
}

// Service 封装订单状态流转用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo *Repo
	hook TerminalHook
}

func NewService(repo *Repo, hook TerminalHook) *Service {
	return &Service{repo: repo, hook: hook}
}

// UpdateStatus 根据状态机规则进行状态流转，终态时联动派生指标重算。
// 订单没有关联客户（匿名/历史订单）时跳过重算，只落状态。
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to Status) (*Order, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order_id required")
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := ApplyTransition(o, to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if s.hook != nil && to.Terminal() && o.CustomerID != "" {
		if err := s.hook.OnTerminal(ctx, o.CustomerID); err != nil {
			// 状态已经落库；重算失败由调用方感知，重试即重新全量计算。
			return o, fmt.Errorf("order %s: reliability recalc failed: %w", o.ID, err)
		}
	}
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	return s.repo.GetByID(ctx, id)
}
