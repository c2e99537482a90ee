package native

type TouchDownEvent struct {
	TimeMsec uint32
	TouchID  int32
	X, Y     float64
}

type TouchUpEvent struct {
	TimeMsec uint32
	TouchID  int32
}

type TouchMotionEvent struct {
	TimeMsec uint32
	TouchID  int32
	X, Y     float64
}

type TouchCancelEvent struct {
	TimeMsec uint32
	TouchID  int32
}

// Touch is the touch part of an input device.
type Touch struct {
	Object
	Events struct {
		Down    Signal[*TouchDownEvent]
		Up      Signal[*TouchUpEvent]
		Motion  Signal[*TouchMotionEvent]
		Cancel  Signal[*TouchCancelEvent]
		Destroy Signal[*Touch]
	}

	device *InputDevice
	points map[int32]struct{}
}

func newTouch(dev *InputDevice) *Touch {
	return &Touch{
		Object: newObject(),
		device: dev,
		points: make(map[int32]struct{}),
	}
}

func (t *Touch) Device() *InputDevice { return t.device }

// Points returns the number of touch points that are currently down.
func (t *Touch) Points() int { return len(t.points) }

func (t *Touch) NotifyDown(ev TouchDownEvent) {
	t.points[ev.TouchID] = struct{}{}
	t.Events.Down.Emit(&ev)
}

func (t *Touch) NotifyUp(ev TouchUpEvent) {
	delete(t.points, ev.TouchID)
	t.Events.Up.Emit(&ev)
}

func (t *Touch) NotifyMotion(ev TouchMotionEvent) {
	t.Events.Motion.Emit(&ev)
}

func (t *Touch) NotifyCancel(ev TouchCancelEvent) {
	delete(t.points, ev.TouchID)
	t.Events.Cancel.Emit(&ev)
}
