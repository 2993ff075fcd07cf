package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

// TestCircuitBreaker_ClosedState 测试关闭状态（正常）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 执行成功请求
	for i := 0; i < 10; i++ {
		err := cb.Execute(func() error {
			return nil // 模拟成功
		})
		if err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}

	counts := cb.Counts()
	if counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 测试打开状态（熔断）
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			// 连续失败5次触发熔断
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 执行5次失败请求（模拟MQ不可用）
	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error {
			return errors.New("broker unavailable")
		})
	}

	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN，实际%s", cb.State())
	}

	// 第6次请求应该立即失败（不调用实际函数）
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	if err != ErrOpenState {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}

	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenRecovery 测试半开状态探测恢复
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     100 * time.Millisecond, // 短超时方便测试
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	// 触发熔断（3次失败）
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error {
			return errors.New("fail")
		})
	}

	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 等待超时，转为半开状态
	time.Sleep(150 * time.Millisecond)

	// 探测请求应被允许，成功后转回CLOSED
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	if err != nil {
		t.Errorf("半开状态探测请求期望成功，实际%v", err)
	}
	if !called {
		t.Error("半开状态应该允许请求通过")
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望状态为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenFailureReopens 半开状态失败立即转回OPEN
func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})

	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(80 * time.Millisecond)

	// 半开探测失败
	_ = cb.Execute(func() error { return errors.New("still down") })

	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望状态为OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string

	cb := NewCircuitBreaker("callback-test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(func() error { return errors.New("fail") })

	if len(transitions) != 1 || transitions[0] != "CLOSED->OPEN" {
		t.Errorf("期望记录CLOSED->OPEN转换，实际: %v", transitions)
	}
}
