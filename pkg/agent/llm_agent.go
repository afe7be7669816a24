package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/boristopalov/montyhall/pkg/core"
	"github.com/boristopalov/montyhall/pkg/memory"
	"github.com/boristopalov/montyhall/pkg/providers"
)

const (
	SYSTEM_PROMPT = `You are playing a game show. There are %d doors. Behind exactly one door is a prize. You pick a door, then the host, who knows where the prize is, opens a different door that does not hide the prize. After each reveal you may stand on your door, switch to another closed door chosen at random, or choose a specific closed door. The host keeps revealing doors until two remain closed. You win if your final door hides the prize. Your goal is to win as many games as possible.`

	MOVE_PROMPT_TEMPLATE = `%s

%s

Closed doors: %s
Open doors: %s
Your current door: %s

%s
Very briefly think step by step and then provide your answer on its own line, following the string "ANSWER" like so: ANSWER: STAND, ANSWER: SWITCH or ANSWER: CHOOSE <door>`

	RETRY_PROMPT_TEMPLATE = `Your previous response did not include the required format. Here was your response:

%s

Reply with exactly one line: ANSWER: STAND, ANSWER: SWITCH or ANSWER: CHOOSE <door>. Legal doors to choose: %s`
)

// promptGames is how many past games are quoted back to the model.
const promptGames = 10

var answerPattern = regexp.MustCompile(`(?i)ANSWER:\s*(CHOOSE|SELECT|STAND|STAY|SWITCH)\b\s*(?:door\s*)?(\d+)?`)

// LLMAgent asks a hosted model for every move. Outcomes of recent games are kept
// in memory and included in the prompt, so the model can adapt across games.
type LLMAgent struct {
	Base
	model  ModelInfo
	client providers.Client
	memory *memory.Memory
	games  int
	moves  []string
}

func NewLLMAgent(opts ...AgentOption) (*LLMAgent, error) {
	params := buildParams(opts)
	if params.Client == nil {
		return nil, fmt.Errorf("llm agent requires a provider client")
	}
	return &LLMAgent{
		Base:   newBase("LLM("+params.Model.Id+")", params),
		model:  params.Model,
		client: params.Client,
		memory: memory.NewMemory(params.MemoryCapacity),
	}, nil
}

func (a *LLMAgent) GetModel() ModelInfo {
	return a.model
}

func (a *LLMAgent) GetMemory() *memory.Memory {
	return a.memory
}

func (a *LLMAgent) Reset() {
	a.moves = a.moves[:0]
}

func (a *LLMAgent) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	prompt := a.buildPrompt(obs)
	response, err := a.client.Complete(ctx, a.model.Id, prompt)
	if err != nil {
		return core.ActionRequest{}, fmt.Errorf("failed to generate response: %w", err)
	}

	action, err := parseMoveResponse(response)
	if err == nil {
		return action, nil
	}

	retryPrompt := fmt.Sprintf(RETRY_PROMPT_TEMPLATE, response, doorList(obs.AvailableDoors))
	response, err = a.client.Complete(ctx, a.model.Id, retryPrompt)
	if err != nil {
		return core.ActionRequest{}, fmt.Errorf("failed to generate response on retry: %w", err)
	}
	return parseMoveResponse(response)
}

func (a *LLMAgent) ObserveStep(step core.StepResult) {
	a.moves = append(a.moves, string(step.Action))
}

func (a *LLMAgent) ObserveResult(result core.Result) {
	a.games++
	outcome := "lost"
	if result.Won {
		outcome = "won"
	}
	a.memory.Store(fmt.Sprintf("Game %d: moves %s; %s (score %d)",
		a.games, strings.Join(a.moves, " -> "), outcome, result.Score))
}

func (a *LLMAgent) buildPrompt(obs core.GameState) string {
	doorCount := len(obs.AvailableDoors) + len(obs.OpenDoors)

	history := "You have not played any games yet."
	if past := a.memory.Recent(promptGames); len(past) > 0 {
		history = "Your previous games:\n" + strings.Join(past, "\n")
	}

	current := "none"
	task := "Pick your first door with CHOOSE <door>."
	if obs.SelectedDoor != nil {
		current = strconv.Itoa(obs.SelectedDoor.Index)
		task = "The host has just opened a door. Do you STAND, SWITCH or CHOOSE a specific closed door?"
	}

	return fmt.Sprintf(MOVE_PROMPT_TEMPLATE,
		fmt.Sprintf(SYSTEM_PROMPT, doorCount),
		history,
		doorList(obs.AvailableDoors),
		doorList(obs.OpenDoors),
		current,
		task,
	)
}

func doorList(doors []core.Door) string {
	if len(doors) == 0 {
		return "none"
	}
	parts := make([]string, len(doors))
	for i, d := range doors {
		parts[i] = strconv.Itoa(d.Index)
	}
	return strings.Join(parts, ", ")
}

// parseMoveResponse extracts the move from an "ANSWER: ..." line.
func parseMoveResponse(response string) (core.ActionRequest, error) {
	matches := answerPattern.FindStringSubmatch(response)
	if len(matches) < 2 {
		return core.ActionRequest{}, fmt.Errorf("could not find answer in response: %s", response)
	}

	switch strings.ToUpper(matches[1]) {
	case "STAND", "STAY":
		return core.StandAction(), nil
	case "SWITCH":
		return core.SwitchAction(), nil
	default:
		if matches[2] == "" {
			return core.ActionRequest{}, fmt.Errorf("choose answer is missing a door: %s", response)
		}
		door, err := strconv.Atoi(matches[2])
		if err != nil {
			return core.ActionRequest{}, fmt.Errorf("could not parse door: %w", err)
		}
		return core.ChooseDoor(door), nil
	}
}
