package gate

import "github.com/Oichkatzelesfrettschen/minix318-sub000/src/spin"

// Registers is the saved register block of a suspended context.
//
// The layout is architecture neutral; a real switcher maps it onto the
// machine's callee-saved registers.
type Registers struct {
	PC  uintptr
	SP  uintptr
	GPR [16]uintptr
}

// SavedContext is a suspended execution context.
//
// Entry, when set, is the body a StepSwitcher runs to resume the context.
type SavedContext struct {
	ID    uint32
	Regs  Registers
	Entry func()
}

// A Resolver translates a capability's resource field into the saved
// context it names.
type Resolver interface {
	Resolve(resource uint32) (*SavedContext, bool)
}

// ContextTable maps resource ids to saved contexts.
type ContextTable struct {
	lock     spin.Lock
	contexts map[uint32]*SavedContext
}

func NewContextTable() *ContextTable {
	return &ContextTable{
		contexts: map[uint32]*SavedContext{},
	}
}

// Bind makes ctx reachable under its ID. An existing binding is replaced.
func (t *ContextTable) Bind(ctx *SavedContext) {
	t.lock.Lock()
	t.contexts[ctx.ID] = ctx
	t.lock.Unlock()
}

func (t *ContextTable) Unbind(resource uint32) {
	t.lock.Lock()
	delete(t.contexts, resource)
	t.lock.Unlock()
}

func (t *ContextTable) Resolve(resource uint32) (*SavedContext, bool) {
	t.lock.Lock()
	ctx, ok := t.contexts[resource]
	t.lock.Unlock()
	return ctx, ok
}

func (t *ContextTable) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.contexts)
}
