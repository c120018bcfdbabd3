package emu

type lineKind uint8

const (
	lineIPL lineKind = iota
	lineHalt
	lineReset
)

type (
	lineEvent struct {
		kind  lineKind
		level uint8
		state bool
	}

	// lineQueue collects input line changes made by bus callbacks while an
	// instruction is executing. They are applied in order once the step ends.
	lineQueue struct {
		events []lineEvent
	}
)

func (q *lineQueue) push(ev lineEvent) {
	q.events = append(q.events, ev)
}

func (q *lineQueue) apply(c *CPU) {
	for _, ev := range q.events {
		switch ev.kind {
		case lineIPL:
			c.setIPL(ev.level)
		case lineHalt:
			c.setExtHalted(ev.state)
		case lineReset:
			c.reset(ev.state)
		}
	}
	q.events = q.events[:0]
}
