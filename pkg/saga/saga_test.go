package saga

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// Execute内部会记录Saga指标，先完成注册
func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// TestSaga_AllStepsSucceed 所有步骤成功时不触发补偿
func TestSaga_AllStepsSucceed(t *testing.T) {
	var executed []string

	sg := NewSaga(5 * time.Second)
	sg.AddStep("step1",
		func(ctx context.Context) error {
			executed = append(executed, "action1")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "compensate1")
			return nil
		})
	sg.AddStep("step2",
		func(ctx context.Context) error {
			executed = append(executed, "action2")
			return nil
		},
		nil)

	if err := sg.Execute(context.Background()); err != nil {
		t.Fatalf("期望成功，实际失败: %v", err)
	}

	if len(executed) != 2 || executed[0] != "action1" || executed[1] != "action2" {
		t.Errorf("步骤执行顺序不正确: %v", executed)
	}
}

// TestSaga_FailureTriggersCompensation 中途失败应逆序补偿已完成步骤
func TestSaga_FailureTriggersCompensation(t *testing.T) {
	var executed []string

	sg := NewSaga(5 * time.Second)
	sg.AddStep("保存文件",
		func(ctx context.Context) error {
			executed = append(executed, "store")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "remove")
			return nil
		})
	sg.AddStep("写数据库",
		func(ctx context.Context) error {
			return errors.New("db insert failed")
		},
		nil)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望失败，实际成功")
	}

	// 第一步的补偿必须被执行（刚保存的文件被删掉）
	if len(executed) != 2 || executed[1] != "remove" {
		t.Errorf("期望补偿remove被执行，实际: %v", executed)
	}
}

// TestSaga_CompensateInReverseOrder 补偿按逆序执行
func TestSaga_CompensateInReverseOrder(t *testing.T) {
	var compensated []string

	sg := NewSaga(0)
	sg.AddStep("a",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = append(compensated, "a")
			return nil
		})
	sg.AddStep("b",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = append(compensated, "b")
			return nil
		})
	sg.AddStep("c",
		func(ctx context.Context) error { return errors.New("boom") },
		nil)

	if err := sg.Execute(context.Background()); err == nil {
		t.Fatal("期望失败")
	}

	if len(compensated) != 2 || compensated[0] != "b" || compensated[1] != "a" {
		t.Errorf("期望逆序补偿[b a]，实际: %v", compensated)
	}
}

// TestSaga_CompensationFailureDoesNotStop 某个补偿失败不影响后续补偿
func TestSaga_CompensationFailureDoesNotStop(t *testing.T) {
	firstCompensated := false

	sg := NewSaga(0)
	sg.AddStep("a",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			firstCompensated = true
			return nil
		})
	sg.AddStep("b",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("compensate failed") })
	sg.AddStep("c",
		func(ctx context.Context) error { return errors.New("boom") },
		nil)

	_ = sg.Execute(context.Background())

	if !firstCompensated {
		t.Error("b的补偿失败后，a的补偿仍应执行")
	}
}
