package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/boristopalov/montyhall/pkg/core"
)

// MockLLMClient replays canned responses and records prompts.
type MockLLMClient struct {
	responses []string
	prompts   []string
	err       error
}

func (m *MockLLMClient) Complete(ctx context.Context, model string, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

func TestLLMAgent(t *testing.T) {
	t.Run("requires a client", func(t *testing.T) {
		if _, err := NewLLMAgent(); err == nil {
			t.Error("expected error without provider client")
		}
	})

	t.Run("parses answers", func(t *testing.T) {
		client := &MockLLMClient{responses: []string{
			"I'll take the middle one.\nANSWER: CHOOSE 1",
			"Switching is better.\nANSWER: SWITCH",
		}}
		a, err := NewLLMAgent(WithProvider(client), WithAgentId("test-agent"),
			WithModel(ModelInfo{Id: "mock-model"}))
		if err != nil {
			t.Fatalf("NewLLMAgent() error = %v", err)
		}
		if got := a.GetID(); got != "test-agent" {
			t.Errorf("GetID() = %v, want test-agent", got)
		}
		if got := a.GetModel().Id; got != "mock-model" {
			t.Errorf("GetModel().Id = %v, want mock-model", got)
		}

		if got := mustAct(t, a, freshState(3)); got != core.ChooseDoor(1) {
			t.Errorf("first action = %+v, want choose 1", got)
		}
		if got := mustAct(t, a, afterReveal(3, 1, 1)); got.Kind != core.Switch {
			t.Errorf("second action = %s, want %s", got.Kind, core.Switch)
		}
		if !strings.Contains(client.prompts[1], "Your current door: 1") {
			t.Errorf("prompt does not describe the selection:\n%s", client.prompts[1])
		}
	})

	t.Run("retries once on malformed answer", func(t *testing.T) {
		client := &MockLLMClient{responses: []string{"I like goats", "ANSWER: stay"}}
		a, _ := NewLLMAgent(WithProvider(client))
		if got := mustAct(t, a, afterReveal(3, 0, 1)); got.Kind != core.Stand {
			t.Errorf("action = %s, want %s", got.Kind, core.Stand)
		}
		if len(client.prompts) != 2 {
			t.Errorf("prompts sent = %d, want 2", len(client.prompts))
		}
	})

	t.Run("fails after second malformed answer", func(t *testing.T) {
		client := &MockLLMClient{responses: []string{"no idea", "still no idea"}}
		a, _ := NewLLMAgent(WithProvider(client))
		if _, err := a.Act(context.Background(), afterReveal(3, 0, 1)); err == nil {
			t.Error("expected error for unparseable responses")
		}
	})

	t.Run("propagates client errors", func(t *testing.T) {
		boom := errors.New("rate limited")
		a, _ := NewLLMAgent(WithProvider(&MockLLMClient{err: boom}))
		if _, err := a.Act(context.Background(), freshState(3)); !errors.Is(err, boom) {
			t.Errorf("Act() error = %v, want %v", err, boom)
		}
	})

	t.Run("remembers finished games", func(t *testing.T) {
		client := &MockLLMClient{responses: []string{"ANSWER: CHOOSE 0"}}
		a, _ := NewLLMAgent(WithProvider(client))
		a.Reset()
		a.ObserveStep(core.StepResult{Action: core.Choose})
		a.ObserveStep(core.StepResult{Action: core.Switch, ScoreDelta: core.WinScore})
		a.ObserveResult(core.Result{Won: true, Score: core.WinScore})

		msgs := a.GetMemory().GetAllMessages()
		if len(msgs) != 1 || msgs[0] != "Game 1: moves select -> switch; won (score 100)" {
			t.Fatalf("memory = %q", msgs)
		}
		mustAct(t, a, freshState(3))
		if !strings.Contains(client.prompts[0], msgs[0]) {
			t.Errorf("prompt does not include game history:\n%s", client.prompts[0])
		}
	})

	t.Run("prompt quotes only recent games", func(t *testing.T) {
		client := &MockLLMClient{responses: []string{"ANSWER: CHOOSE 0"}}
		a, _ := NewLLMAgent(WithProvider(client), WithMemoryCapacity(50))
		for i := 0; i < promptGames+5; i++ {
			a.Reset()
			a.ObserveStep(core.StepResult{Action: core.Choose})
			a.ObserveStep(core.StepResult{Action: core.Stand})
			a.ObserveResult(core.Result{})
		}
		mustAct(t, a, freshState(3))
		if strings.Contains(client.prompts[0], "Game 5:") {
			t.Errorf("prompt quotes a game older than the last %d:\n%s", promptGames, client.prompts[0])
		}
		if !strings.Contains(client.prompts[0], "Game 6:") || !strings.Contains(client.prompts[0], "Game 15:") {
			t.Errorf("prompt is missing recent games:\n%s", client.prompts[0])
		}
	})
}

func TestParseMoveResponse(t *testing.T) {
	tests := []struct {
		response string
		want     core.ActionRequest
		wantErr  bool
	}{
		{"ANSWER: STAND", core.StandAction(), false},
		{"answer: switch", core.SwitchAction(), false},
		{"ANSWER: CHOOSE 4", core.ChooseDoor(4), false},
		{"ANSWER: select door 2", core.ChooseDoor(2), false},
		{"ANSWER: CHOOSE", core.ActionRequest{}, true},
		{"I will switch", core.ActionRequest{}, true},
	}
	for _, tt := range tests {
		got, err := parseMoveResponse(tt.response)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMoveResponse(%q) error = %v, wantErr %v", tt.response, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMoveResponse(%q) = %+v, want %+v", tt.response, got, tt.want)
		}
	}
}
