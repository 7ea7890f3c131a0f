package machine

import "github.com/hemlang/hemlock/lang/types"

// Channel has no surface syntax (no AST node ever lowers to
// OpChanNew/OpChanSend/OpChanRecv -- the parser just never grew a channel
// literal or operator), so these builtins are the only way hemlock code
// reaches spec section 5's Channel type. Send/recv are non-blocking here:
// the cooperative scheduler this Thread runs (see scheduler.go) drives a
// spawned task to completion the moment something awaits it rather than
// truly interleaving tasks step by step, so there is no mechanism by which
// a blocked send or recv could ever be unblocked by some other task
// making progress in the background. A full channel that suspends and
// resumes needs that interleaving; until then, a send to a full channel or
// a recv from an empty one is a RuntimeError rather than a block.
func channelBuiltins() map[string]types.Value {
	return map[string]types.Value{
		"channel_new":  types.NewBuiltin("channel_new", builtinChannelNew),
		"channel_send": types.NewBuiltin("channel_send", builtinChannelSend),
		"channel_recv": types.NewBuiltin("channel_recv", builtinChannelRecv),
		"channel_close": types.NewBuiltin("channel_close", builtinChannelClose),
	}
}

func builtinChannelNew(args []types.Value) (types.Value, error) {
	cap := 0
	if len(args) > 0 {
		cap = int(args[0].Int())
	}
	return types.NewChannel(cap), nil
}

func builtinChannelSend(args []types.Value) (types.Value, error) {
	if len(args) != 2 || args[0].Kind != types.KindChannel {
		return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "channel_send expects (channel, value)"}
	}
	if !args[0].AsChannel().TrySend(args[1]) {
		return types.Value{}, &types.RuntimeError{Kind: "RuntimeError", Message: "channel_send: would block"}
	}
	return types.Null, nil
}

func builtinChannelRecv(args []types.Value) (types.Value, error) {
	if len(args) != 1 || args[0].Kind != types.KindChannel {
		return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "channel_recv expects (channel)"}
	}
	v, ok := args[0].AsChannel().TryRecv()
	if !ok {
		return types.Value{}, &types.RuntimeError{Kind: "RuntimeError", Message: "channel_recv: would block"}
	}
	return v, nil
}

func builtinChannelClose(args []types.Value) (types.Value, error) {
	if len(args) != 1 || args[0].Kind != types.KindChannel {
		return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "channel_close expects (channel)"}
	}
	args[0].AsChannel().Close()
	return types.Null, nil
}
