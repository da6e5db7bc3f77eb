package safeerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		dev  bool
		want string
	}{
		{"nil error", nil, false, "fallback"},
		{"whitelisted prefix", errors.New("格式错误：不是对象"), false, "格式错误：不是对象"},
		{"internal detail hidden", errors.New("dial tcp 10.0.0.3:443: refused"), false, "fallback"},
		{"internal detail in development", errors.New("dial tcp: refused"), true, "dial tcp: refused"},
		{"wrapped input error", fmt.Errorf("analyze: %w", Input("请提供产品/服务描述文本")), false, "请提供产品/服务描述文本"},
		{"wrapped safe error keeps outer text hidden", fmt.Errorf("stage: %w", errors.New("模型超时")), false, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err, "fallback", tt.dev); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInput(t *testing.T) {
	if !IsInput(fmt.Errorf("wrap: %w", Input("请"))) {
		t.Error("expected wrapped input error to be detected")
	}
	if IsInput(errors.New("请")) {
		t.Error("plain error must not be treated as input error")
	}
}
