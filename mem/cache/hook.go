package cache

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosAccess is triggered after every access. The item is the AccessResult.
var HookPosAccess = &HookPos{Name: "Access"}

// HookPosEvict is triggered after a valid line is overwritten. The item is the
// AccessResult of the access that caused the eviction.
var HookPosEvict = &HookPos{Name: "Evict"}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

type hookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *hookableBase) NumHooks() int {
	return len(h.hookList)
}

// AcceptHook register a hook.
func (h *hookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *hookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); isFunc {
		return
	}

	for _, existing := range h.hookList {
		if existing == hook {
			panic("duplicated hook")
		}
	}
}

func (h *hookableBase) invokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
