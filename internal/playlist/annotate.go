package playlist

// Annotate walks the program once and stamps every item with its absolute
// begin offset and scheduling state. The running offset starts at start and
// advances by each item's effective play time (out - seek).
//
// This is the only place Begin, Index and the scheduling flags are assigned;
// whatever the source document carried in those positions is overwritten.
func Annotate(p *Playlist, start float64) {
	for i := range p.Program {
		item := &p.Program[i]
		item.Begin = start
		item.Index = i
		item.LastAd = false
		item.NextAd = false
		item.Process = true
		item.Filter = []string{}

		start += item.Out - item.Seek
	}
}
