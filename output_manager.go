package wlr

import "deedles.dev/wlr/native"

// OutputManagerHandler is notified when outputs are added.
type OutputManagerHandler interface {
	// OnOutputAdded is called when a new output appears. It may return
	// a handler for the output's events.
	OnOutputAdded(c CompositorHandle, out OutputHandle) OutputHandler
}

type OutputManagerFuncs struct {
	OutputAdded func(c CompositorHandle, out OutputHandle) OutputHandler
}

func (f OutputManagerFuncs) OnOutputAdded(c CompositorHandle, out OutputHandle) OutputHandler {
	if f.OutputAdded == nil {
		return nil
	}
	return f.OutputAdded(c, out)
}

type outputManager struct {
	c       *Compositor
	handler OutputManagerHandler
	outputs *table[*native.Output, *outputData, *Output]
}

func newOutputManager(c *Compositor, handler OutputManagerHandler) *outputManager {
	if handler == nil {
		handler = OutputManagerFuncs{}
	}

	m := outputManager{
		c:       c,
		handler: handler,
		outputs: newTable(outputKind),
	}
	c.backend.Events.NewOutput.Add(m.add)
	return &m
}

func (m *outputManager) add(ptr *native.Output) {
	e := m.outputs.add(ptr, &outputData{c: m.c})
	oh := m.outputs.handle(e)

	var handler OutputHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnOutputAdded(ch, oh)
	})
	if handler == nil {
		handler = OutputFuncs{}
	}

	on := func(f func(CompositorHandle, OutputHandle)) func(*native.Output) {
		return func(*native.Output) {
			m.c.dispatch(func(ch CompositorHandle) { f(ch, oh) })
		}
	}

	e.listen(
		ptr.Events.Frame.Add(on(handler.OnFrame)),
		ptr.Events.Mode.Add(on(handler.OnModeChange)),
		ptr.Events.Enable.Add(on(handler.OnEnable)),
		ptr.Events.Scale.Add(on(handler.OnScaleChange)),
		ptr.Events.Transform.Add(on(handler.OnTransform)),
		ptr.Events.Destroy.Add(func(*native.Output) {
			destroyed(m.c, m.outputs, ptr, handler.OnDestroyed)
			e.data.layout = OutputLayoutHandle{}
		}),
	)
}

func (m *outputManager) clear() {
	m.outputs.clear()
}
