package kernel

import (
	"fmt"
	"io"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/scheduler"
)

// Owner id of everything the demo spawns.
const demoOwner = 1

// SetupDemo installs two task families. The Beatty scheduler alternates
// between tasks A and B; the DAG scheduler runs A1 → A2 and B1 → B2, the A
// family weighted above the B family. Each context prints its name to out
// when it runs.
func (s *System) SetupDemo(out io.Writer) error {
	spawn := func(name string) (capability.Handle, error) {
		return s.Spawn(name, capability.KindPage, demoOwner, func() {
			fmt.Fprintln(out, name)
		})
	}

	a, err := spawn("A")
	if err != nil {
		return err
	}
	b, err := spawn("B")
	if err != nil {
		return err
	}
	s.Beatty.SetTasks(a, b)

	families := []struct {
		names  [2]string
		weight int64
	}{
		{[2]string{"A1", "A2"}, 2},
		{[2]string{"B1", "B2"}, 1},
	}
	for _, family := range families {
		var ids [2]scheduler.NodeID
		for i, name := range family.names {
			h, err := spawn(name)
			if err != nil {
				return err
			}
			id := s.DAG.NewNode(h)
			if err := s.DAG.SetWeight(id, family.weight); err != nil {
				return err
			}
			ids[i] = id
		}
		head, tail := ids[0], ids[1]
		if err := s.DAG.AddDep(head, tail); err != nil {
			return err
		}
		if err := s.DAG.Submit(head); err != nil {
			return err
		}
		if err := s.DAG.Submit(tail); err != nil {
			return err
		}
	}
	return nil
}
