package pipeline

// seenSet tracks normalized listing URLs already processed within one
// Search invocation. It is never persisted: its only job is avoiding a
// second detail fetch when a listing shows up on more than one results
// page or under more than one search phrase of the same run.
type seenSet map[string]struct{}

func newSeenSet() seenSet {
	return make(seenSet)
}

func (s seenSet) Seen(url string) bool {
	_, ok := s[url]
	return ok
}

func (s seenSet) Mark(url string) {
	s[url] = struct{}{}
}
