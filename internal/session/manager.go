package session

import (
	"sync"

	"github.com/hnthap/classgate/internal/classroom"
	"github.com/hnthap/classgate/internal/store"
)

// Manager owns one session machine per student. Exactly one session is live
// per student at a time; a machine persists across requests until the student
// exits or the process restarts (the durable mirror covers the latter).
type Manager struct {
	mu       sync.Mutex
	machines map[string]*Machine

	catalog classroom.CatalogAPI
	grader  classroom.AttemptAPI
	mirror  store.Mirror
	clock   Clock
}

func NewManager(catalog classroom.CatalogAPI, grader classroom.AttemptAPI, mirror store.Mirror, clock Clock) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		catalog:  catalog,
		grader:   grader,
		mirror:   mirror,
		clock:    clock,
	}
}

// ForStudent returns the student's session machine, creating one in the
// Browsing phase on first use.
func (m *Manager) ForStudent(studentID string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()
	machine, ok := m.machines[studentID]
	if !ok {
		machine = NewMachine(studentID, m.catalog, m.grader, m.mirror, m.clock)
		m.machines[studentID] = machine
	}
	return machine
}

// Release exits the student's session and evicts the machine, so abandoned
// sessions do not accumulate over the process lifetime. The next request
// creates a fresh Browsing machine; the answer mirror is kept, exactly as
// for a plain exit. Returns the final view for rendering.
func (m *Manager) Release(studentID string) View {
	m.mu.Lock()
	machine, ok := m.machines[studentID]
	delete(m.machines, studentID)
	m.mu.Unlock()
	if !ok {
		return View{Phase: PhaseBrowsing}
	}
	machine.Exit()
	return machine.View()
}
