package environment

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/boristopalov/montyhall/pkg/core"
)

// scriptedRand replays fixed draws; once exhausted it always returns 0.
type scriptedRand struct {
	values []int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

// newFixedMonty builds an engine whose first game hides the prize behind winning.
func newFixedMonty(t *testing.T, doors, winning int, draws ...int) *Monty {
	t.Helper()
	m, err := NewMonty(doors, WithRand(&scriptedRand{values: append([]int{winning}, draws...)}))
	if err != nil {
		t.Fatalf("NewMonty(%d) error = %v", doors, err)
	}
	if m.winning != winning {
		t.Fatalf("winning = %d, want %d", m.winning, winning)
	}
	return m
}

func mustSelect(t *testing.T, m *Monty, door int) core.StepResult {
	t.Helper()
	step, err := m.SelectDoor(door)
	if err != nil {
		t.Fatalf("SelectDoor(%d) error = %v", door, err)
	}
	return step
}

func mustHostOpen(t *testing.T, m *Monty) {
	t.Helper()
	if err := m.HostOpensDoor(); err != nil {
		t.Fatalf("HostOpensDoor() error = %v", err)
	}
}

func TestNewMonty(t *testing.T) {
	t.Run("rejects fewer than three doors", func(t *testing.T) {
		for _, n := range []int{-1, 0, 1, 2} {
			if _, err := NewMonty(n, WithSeed(1)); !errors.Is(err, core.ErrInvalidArgument) {
				t.Errorf("NewMonty(%d) error = %v, want InvalidArgument", n, err)
			}
		}
	})

	t.Run("creates closed doors", func(t *testing.T) {
		m, err := NewMonty(5, WithSeed(42))
		if err != nil {
			t.Fatalf("NewMonty() error = %v", err)
		}
		if len(m.doors) != 5 {
			t.Fatalf("len(doors) = %d, want 5", len(m.doors))
		}
		for _, d := range m.doors {
			if d.IsOpen {
				t.Errorf("door %d is open", d.Index)
			}
		}
		if m.winning < 0 || m.winning >= 5 {
			t.Errorf("winning = %d out of range", m.winning)
		}
	})

	t.Run("same seed draws the same winning doors", func(t *testing.T) {
		a, _ := NewMonty(7, WithSeed(99))
		b, _ := NewMonty(7, WithSeed(99))
		for i := 0; i < 20; i++ {
			if a.winning != b.winning {
				t.Fatalf("game %d: winning %d != %d", i, a.winning, b.winning)
			}
			a.Reset()
			b.Reset()
		}
	})
}

func TestReset(t *testing.T) {
	t.Run("initial state for every door count and seed", func(t *testing.T) {
		for doors := 3; doors <= 10; doors++ {
			for seed := int64(0); seed < 20; seed++ {
				m, err := NewMonty(doors, WithSeed(seed))
				if err != nil {
					t.Fatalf("NewMonty(%d) error = %v", doors, err)
				}
				mustSelect(t, m, 0)
				mustHostOpen(t, m)
				m.Reset()

				state := m.GetState()
				if len(state.AvailableDoors) != doors {
					t.Errorf("doors=%d seed=%d: %d available doors", doors, seed, len(state.AvailableDoors))
				}
				if len(state.OpenDoors) != 0 {
					t.Errorf("doors=%d seed=%d: %d open doors after reset", doors, seed, len(state.OpenDoors))
				}
				if state.HasSelection() {
					t.Errorf("doors=%d seed=%d: selection survived reset", doors, seed)
				}
				if m.lastAction != noAction {
					t.Errorf("doors=%d seed=%d: last action = %s", doors, seed, m.lastAction)
				}
			}
		}
	})
}

func TestSelectDoor(t *testing.T) {
	t.Run("selects door", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		step := mustSelect(t, m, 1)
		if m.selected != 1 {
			t.Errorf("selected = %d, want 1", m.selected)
		}
		if m.lastAction != userAction {
			t.Errorf("last action = %s, want user_action", m.lastAction)
		}
		if diff := cmp.Diff(core.StepResult{Action: core.Choose, ScoreDelta: 0}, step); diff != "" {
			t.Errorf("step mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("selects again after host reveal", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		mustSelect(t, m, 2)
		if m.selected != 2 {
			t.Errorf("selected = %d, want 2", m.selected)
		}
	})

	t.Run("twice in a row is illegal", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		if _, err := m.SelectDoor(2); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("second SelectDoor() error = %v, want IllegalMove", err)
		}
	})

	t.Run("cannot select open door", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		if _, err := m.SelectDoor(0); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("SelectDoor(open) error = %v, want IllegalMove", err)
		}
	})

	t.Run("cannot select invalid door", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		for _, i := range []int{-1, 3, 100} {
			if _, err := m.SelectDoor(i); !errors.Is(err, core.ErrInvalidArgument) {
				t.Errorf("SelectDoor(%d) error = %v, want InvalidArgument", i, err)
			}
		}
	})
}

func TestHostOpensDoor(t *testing.T) {
	t.Run("opens the only legal door", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		if !m.doors[0].IsOpen || m.doors[1].IsOpen || m.doors[2].IsOpen {
			t.Errorf("doors = %+v, want only door 0 open", m.doors)
		}
		if m.lastAction != hostAction {
			t.Errorf("last action = %s, want host_action", m.lastAction)
		}
	})

	t.Run("cannot open when two doors remain", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		mustSelect(t, m, 2)
		if err := m.HostOpensDoor(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("HostOpensDoor() error = %v, want IllegalMove", err)
		}
	})

	t.Run("opens one door per turn with more doors", func(t *testing.T) {
		m := newFixedMonty(t, 4, 0)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		if got := len(m.GetState().OpenDoors); got != 1 {
			t.Fatalf("open doors = %d, want 1", got)
		}
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		if got := len(m.GetState().OpenDoors); got != 2 {
			t.Fatalf("open doors = %d, want 2", got)
		}
		if m.doors[0].IsOpen || m.doors[1].IsOpen {
			t.Error("host opened the winning or the selected door")
		}
	})

	t.Run("never opens the same door twice", func(t *testing.T) {
		m, err := NewMonty(10, WithSeed(42))
		if err != nil {
			t.Fatalf("NewMonty() error = %v", err)
		}
		mustSelect(t, m, 1)
		for opened := 1; opened <= 8; opened++ {
			mustHostOpen(t, m)
			if got := len(m.GetState().OpenDoors); got != opened {
				t.Fatalf("open doors = %d, want %d", got, opened)
			}
			if opened < 8 {
				mustSelect(t, m, 1)
			}
		}
		if m.doors[m.selected].IsOpen || m.doors[m.winning].IsOpen {
			t.Error("selected or winning door was opened")
		}
	})

	t.Run("never opens selected or winning door", func(t *testing.T) {
		for doors := 3; doors <= 8; doors++ {
			m, err := NewMonty(doors, WithSeed(int64(doors)))
			if err != nil {
				t.Fatalf("NewMonty() error = %v", err)
			}
			for game := 0; game < 200; game++ {
				m.Reset()
				mustSelect(t, m, game%doors)
				for !m.Done() {
					before := len(m.GetState().OpenDoors)
					mustHostOpen(t, m)
					after := len(m.GetState().OpenDoors)
					if after != before+1 {
						t.Fatalf("open doors went from %d to %d", before, after)
					}
					if m.doors[m.selected].IsOpen {
						t.Fatalf("host opened the selected door %d", m.selected)
					}
					if m.doors[m.winning].IsOpen {
						t.Fatalf("host opened the winning door %d", m.winning)
					}
					var err error
					if game%2 == 0 {
						_, err = m.Stand()
					} else {
						_, err = m.SwitchDoor()
					}
					if err != nil {
						t.Fatalf("user move error = %v", err)
					}
				}
			}
		}
	})

	t.Run("fails without selection", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		if err := m.HostOpensDoor(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("HostOpensDoor() error = %v, want IllegalMove", err)
		}
	})

	t.Run("fails after host action", func(t *testing.T) {
		m := newFixedMonty(t, 4, 2)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		if err := m.HostOpensDoor(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("HostOpensDoor() error = %v, want IllegalMove", err)
		}
	})
}

func TestHasWon(t *testing.T) {
	t.Run("premature with more than two closed doors", func(t *testing.T) {
		m := newFixedMonty(t, 4, 0)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		mustSelect(t, m, 1)
		if _, err := m.HasWon(); !errors.Is(err, core.ErrIllegalState) {
			t.Errorf("HasWon() error = %v, want IllegalState", err)
		}
	})

	t.Run("not won after host action", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 2)
		mustHostOpen(t, m)
		won, err := m.HasWon()
		if err != nil || won {
			t.Errorf("HasWon() = %v, %v; want false, nil", won, err)
		}
	})

	t.Run("won when selection is winning", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 2)
		mustHostOpen(t, m)
		mustSelect(t, m, 2)
		won, err := m.HasWon()
		if err != nil || !won {
			t.Errorf("HasWon() = %v, %v; want true, nil", won, err)
		}
	})

	t.Run("lost when selection is not winning", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		mustHostOpen(t, m)
		mustSelect(t, m, 0)
		won, err := m.HasWon()
		if err != nil || won {
			t.Errorf("HasWon() = %v, %v; want false, nil", won, err)
		}
	})

	t.Run("fails without selection", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		if _, err := m.HasWon(); !errors.Is(err, core.ErrIllegalState) {
			t.Errorf("HasWon() error = %v, want IllegalState", err)
		}
	})
}

func TestDone(t *testing.T) {
	t.Run("not done before host reveal", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		if m.Done() {
			t.Error("Done() = true with three closed doors")
		}
	})

	t.Run("not done right after host reveal", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		mustHostOpen(t, m)
		if m.Done() {
			t.Error("Done() = true while the user still has to move")
		}
	})

	t.Run("done after final user move", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		mustHostOpen(t, m)
		if _, err := m.Stand(); err != nil {
			t.Fatalf("Stand() error = %v", err)
		}
		if !m.Done() {
			t.Error("Done() = false after final user move")
		}
	})

	t.Run("larger games need one reveal per extra door", func(t *testing.T) {
		m := newFixedMonty(t, 6, 3)
		mustSelect(t, m, 0)
		reveals := 0
		for !m.Done() {
			mustHostOpen(t, m)
			reveals++
			if _, err := m.Stand(); err != nil {
				t.Fatalf("Stand() error = %v", err)
			}
		}
		if reveals != 4 {
			t.Errorf("reveals = %d, want 4", reveals)
		}
	})
}

func TestSwitchDoor(t *testing.T) {
	t.Run("concrete three door game", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		mustHostOpen(t, m)
		if !m.doors[0].IsOpen {
			t.Fatal("host should have opened door 0")
		}
		step, err := m.SwitchDoor()
		if err != nil {
			t.Fatalf("SwitchDoor() error = %v", err)
		}
		if m.selected != 2 {
			t.Errorf("selected = %d, want 2", m.selected)
		}
		if diff := cmp.Diff(core.StepResult{Action: core.Switch, ScoreDelta: core.WinScore}, step); diff != "" {
			t.Errorf("step mismatch (-want +got):\n%s", diff)
		}
		won, err := m.HasWon()
		if err != nil || !won {
			t.Errorf("HasWon() = %v, %v; want true, nil", won, err)
		}
		result, err := m.GetResult()
		if err != nil {
			t.Fatalf("GetResult() error = %v", err)
		}
		if diff := cmp.Diff(core.Result{Won: true, Score: 100}, result); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("always moves to a different closed door", func(t *testing.T) {
		for seed := int64(0); seed < 50; seed++ {
			m, _ := NewMonty(6, WithSeed(seed))
			mustSelect(t, m, int(seed%6))
			for !m.Done() {
				mustHostOpen(t, m)
				before := m.selected
				if _, err := m.SwitchDoor(); err != nil {
					t.Fatalf("SwitchDoor() error = %v", err)
				}
				if m.selected == before {
					t.Fatalf("seed %d: switch kept door %d", seed, before)
				}
				if m.doors[m.selected].IsOpen {
					t.Fatalf("seed %d: switched to open door %d", seed, m.selected)
				}
			}
		}
	})

	t.Run("fails without selection", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		if _, err := m.SwitchDoor(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("SwitchDoor() error = %v, want IllegalMove", err)
		}
	})

	t.Run("fails right after a user action", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		if _, err := m.SwitchDoor(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("SwitchDoor() error = %v, want IllegalMove", err)
		}
	})
}

func TestStand(t *testing.T) {
	t.Run("keeps current door", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		mustHostOpen(t, m)
		step, err := m.Stand()
		if err != nil {
			t.Fatalf("Stand() error = %v", err)
		}
		if m.selected != 0 {
			t.Errorf("selected = %d, want 0", m.selected)
		}
		if m.lastAction != userAction {
			t.Errorf("last action = %s, want user_action", m.lastAction)
		}
		if diff := cmp.Diff(core.StepResult{Action: core.Stand, ScoreDelta: 0}, step); diff != "" {
			t.Errorf("step mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fails without selection", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		if _, err := m.Stand(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("Stand() error = %v, want IllegalMove", err)
		}
	})

	t.Run("fails right after a user action", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		if _, err := m.Stand(); !errors.Is(err, core.ErrIllegalMove) {
			t.Errorf("Stand() error = %v, want IllegalMove", err)
		}
	})
}

func TestGetState(t *testing.T) {
	t.Run("initial state", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		want := core.GameState{
			AvailableDoors: []core.Door{{Index: 0}, {Index: 1}, {Index: 2}},
			OpenDoors:      []core.Door{},
		}
		if diff := cmp.Diff(want, m.GetState()); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("after host opens door", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 2)
		mustHostOpen(t, m)
		want := core.GameState{
			AvailableDoors: []core.Door{{Index: 1}, {Index: 2}},
			SelectedDoor:   &core.Door{Index: 2},
			OpenDoors:      []core.Door{{Index: 0, IsOpen: true}},
		}
		if diff := cmp.Diff(want, m.GetState()); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("snapshot cannot corrupt the engine", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 1)
		state := m.GetState()
		state.AvailableDoors[0].IsOpen = true
		state.SelectedDoor.Index = 2
		if m.doors[0].IsOpen {
			t.Error("mutating the snapshot opened a door in the engine")
		}
		if m.selected != 1 {
			t.Errorf("selected = %d, want 1", m.selected)
		}
	})
}

func TestGetResult(t *testing.T) {
	t.Run("won game", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 2)
		mustHostOpen(t, m)
		mustSelect(t, m, 2)
		result, err := m.GetResult()
		if err != nil {
			t.Fatalf("GetResult() error = %v", err)
		}
		if diff := cmp.Diff(core.Result{Won: true, Score: 100}, result); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lost game", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		mustSelect(t, m, 0)
		mustHostOpen(t, m)
		mustSelect(t, m, 0)
		result, err := m.GetResult()
		if err != nil {
			t.Fatalf("GetResult() error = %v", err)
		}
		if diff := cmp.Diff(core.Result{}, result); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fails before done", func(t *testing.T) {
		m := newFixedMonty(t, 3, 2)
		if _, err := m.GetResult(); !errors.Is(err, core.ErrIllegalState) {
			t.Errorf("GetResult() error = %v, want IllegalState", err)
		}
		mustSelect(t, m, 0)
		mustHostOpen(t, m)
		if _, err := m.GetResult(); !errors.Is(err, core.ErrIllegalState) {
			t.Errorf("GetResult() error = %v, want IllegalState", err)
		}
	})
}
