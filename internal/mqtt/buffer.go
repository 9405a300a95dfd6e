package mqtt

import "log"

// queuedMsg stores a serialized MQTT message for replay after reconnection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayQueue is a fixed-capacity FIFO holding messages published while the
// broker is unreachable. When full, the oldest message is dropped: the most
// recent transitions matter more than history. Not safe for concurrent use;
// the caller synchronizes.
type replayQueue struct {
	msgs    []queuedMsg
	max     int
	dropped int // messages lost to overflow since the last drain
}

func newReplayQueue(max int) *replayQueue {
	return &replayQueue{max: max}
}

func (q *replayQueue) push(msg queuedMsg) {
	if len(q.msgs) == q.max {
		if q.dropped == 0 {
			log.Printf("mqtt: replay queue full (%d messages), dropping oldest", q.max)
		}
		q.dropped++
		q.msgs = q.msgs[1:]
	}
	q.msgs = append(q.msgs, msg)
}

// drain returns the queued messages oldest first and empties the queue.
func (q *replayQueue) drain() []queuedMsg {
	if len(q.msgs) == 0 {
		return nil
	}

	if q.dropped > 0 {
		log.Printf("mqtt: %d messages were lost while disconnected", q.dropped)
	}

	out := q.msgs
	q.msgs = nil
	q.dropped = 0
	return out
}

func (q *replayQueue) len() int {
	return len(q.msgs)
}
