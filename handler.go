package dialtree

import (
	"context"
	"fmt"
	"reflect"
)

// Ask requests a line of input from the user and blocks until it arrives.
// A false ok reports that the conversation is over: the user disconnected,
// gave no further input, or the host elected to stop answering. That is
// the only end-of-conversation signal the engine recognizes.
type Ask func(prompt string) (answer string, ok bool)

// Tell delivers a one-way message to the user. It never waits for a reply.
type Tell func(message string)

// Flow lets a handler steer the conversation after it returns. A handler
// receives one by declaring a *Flow parameter; if it never touches it,
// the loop proceeds normally (descend into a chosen child, or terminate
// at a node without children).
type Flow struct {
	next   *Node
	hangup bool
}

// Redirect makes the conversation continue at n instead of the node the
// loop would otherwise move to.
func (f *Flow) Redirect(n *Node) {
	f.next = n
	f.hangup = false
}

// Hangup ends the conversation as soon as the handler returns.
func (f *Flow) Hangup() {
	f.next = nil
	f.hangup = true
}

// role identifies what a handler parameter is bound to at invocation time.
type role int

const (
	roleState role = iota
	roleContext
	roleAsk
	roleTell
	roleFlow
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	askType     = reflect.TypeOf(Ask(nil))
	tellType    = reflect.TypeOf(Tell(nil))
	flowType    = reflect.TypeOf((*Flow)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// handlerSpec is the call plan for one bound handler: which roles it
// declares and in what order, where the state parameter sits, and what it
// returns. It is built once, at Bind time, and reused for every
// invocation in the conversation loop.
type handlerSpec struct {
	fn           reflect.Value
	params       []role
	stateIndex   int // -1 when the handler declares no state parameter
	returnsState bool
	returnsError bool
}

// paramRole reports the reserved role for a parameter type. Unnamed func
// types with the Ask or Tell shape count as those roles, mirroring the
// roles being part of the declared signature rather than the value.
func paramRole(t reflect.Type) (role, bool) {
	switch {
	case t == contextType:
		return roleContext, true
	case t.AssignableTo(askType) && askType.AssignableTo(t):
		return roleAsk, true
	case t.AssignableTo(tellType) && tellType.AssignableTo(t):
		return roleTell, true
	case t == flowType:
		return roleFlow, true
	}
	return roleState, false
}

// classify inspects a handler's declared signature and produces its call
// plan. Handlers may declare, in any order, at most one each of
// context.Context, Ask, Tell and *Flow, plus at most one state parameter
// of any other type. The state parameter must come before every
// Ask/Tell/*Flow parameter; a leading context.Context may precede it.
// Results may be none, a new state, an error, or (state, error).
func classify(handler any) (*handlerSpec, error) {
	if handler == nil {
		return nil, &SignatureError{Reason: "handler is nil"}
	}
	v := reflect.ValueOf(handler)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, &SignatureError{Reason: fmt.Sprintf("handler is %s, want func", t.Kind())}
	}
	if t.IsVariadic() {
		return nil, &SignatureError{Reason: "variadic handlers are not supported"}
	}

	spec := &handlerSpec{fn: v, stateIndex: -1}
	seen := make(map[role]bool)
	for i := 0; i < t.NumIn(); i++ {
		r, reserved := paramRole(t.In(i))
		if !reserved {
			if spec.stateIndex >= 0 {
				return nil, &SignatureError{Reason: fmt.Sprintf(
					"parameters %d and %d both look like state; at most one non-role parameter is allowed",
					spec.stateIndex, i)}
			}
			if seen[roleAsk] || seen[roleTell] || seen[roleFlow] {
				return nil, &SignatureError{Reason: fmt.Sprintf(
					"state parameter %d must come before Ask, Tell and *Flow parameters", i)}
			}
			spec.stateIndex = i
			spec.params = append(spec.params, roleState)
			continue
		}
		if seen[r] {
			return nil, &SignatureError{Reason: fmt.Sprintf("duplicate %s parameter at index %d", t.In(i), i)}
		}
		seen[r] = true
		spec.params = append(spec.params, r)
	}

	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			spec.returnsError = true
		} else {
			spec.returnsState = true
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, &SignatureError{Reason: "second result must be error"}
		}
		spec.returnsState = true
		spec.returnsError = true
	default:
		return nil, &SignatureError{Reason: fmt.Sprintf("handler declares %d results, want at most two", t.NumOut())}
	}
	return spec, nil
}

// invoke calls the handler with exactly the arguments it declared, in its
// declared order. It returns the handler's new state, or the prior state
// untouched when the handler declares no state result or fails.
func (s *handlerSpec) invoke(ctx context.Context, state any, ask Ask, tell Tell, flow *Flow) (any, error) {
	t := s.fn.Type()
	args := make([]reflect.Value, len(s.params))
	for i, r := range s.params {
		in := t.In(i)
		switch r {
		case roleContext:
			args[i] = reflect.ValueOf(ctx)
		case roleAsk:
			args[i] = reflect.ValueOf(ask).Convert(in)
		case roleTell:
			args[i] = reflect.ValueOf(tell).Convert(in)
		case roleFlow:
			args[i] = reflect.ValueOf(flow)
		case roleState:
			if state == nil {
				args[i] = reflect.Zero(in)
				continue
			}
			sv := reflect.ValueOf(state)
			if !sv.Type().AssignableTo(in) {
				return state, fmt.Errorf("dialtree: state of type %T is not assignable to handler parameter %s", state, in)
			}
			args[i] = sv
		}
	}

	out := s.fn.Call(args)
	if s.returnsError {
		if v := out[len(out)-1]; !v.IsNil() {
			return state, v.Interface().(error)
		}
	}
	if s.returnsState {
		return out[0].Interface(), nil
	}
	return state, nil
}
