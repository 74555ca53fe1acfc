package sequencer

import (
	"errors"
	"sync"
)

// State of the playback machine. Idle means no pending entry has ever been
// observed (or the queue drained away underneath us).
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// ErrCapabilityUnsupported reports a parameter that was accepted as state
// but has no enacted effect because no audio-processing collaborator
// exists yet. Callers must surface it to the user, not swallow it.
var ErrCapabilityUnsupported = errors.New("accepted, but not supported by the current player")

// Entry is one pending queue entry as the sequencer sees it.
type Entry struct {
	Id             string `json:"id"`
	VideoId        string `json:"video_id"`
	VideoTitle     string `json:"video_title"`
	VideoThumbnail string `json:"video_thumbnail"`
}

// Player is the opaque rendering surface the sequencer drives. The
// sequencer only issues commands; lifecycle events come back through
// Ended.
type Player interface {
	Load(entry Entry)
	Play()
	Pause()
	SetVolume(volume int)
}

// MarkPlayedFunc is called when an entry finishes naturally or is skipped.
type MarkPlayedFunc func(entryId string)

// PlaybackState is the declarative state the rendering surface applies.
type PlaybackState struct {
	State          State  `json:"state"`
	CurrentEntryId string `json:"current_entry_id,omitempty"`
	Volume         int    `json:"volume"`
	KeyAdjustment  int    `json:"key_adjustment"`
	VocalRemoval   bool   `json:"vocal_removal"`
}

const (
	minKeyAdjustment = -6
	maxKeyAdjustment = 6
)

// Sequencer advances "now playing" through a room's pending queue. The
// current item is tracked by entry id, never by index, so a concurrent
// insert or removal reflected in a new snapshot does not by itself skip
// the song being played.
type Sequencer struct {
	mu         sync.Mutex
	player     Player
	markPlayed MarkPlayedFunc

	entries       []Entry
	currentId     string
	state         State
	volume        int
	keyAdjustment int
	vocalRemoval  bool
}

func New(player Player, markPlayed MarkPlayedFunc) *Sequencer {
	return &Sequencer{
		player:     player,
		markPlayed: markPlayed,
		volume:     100,
	}
}

// ApplySnapshot replaces the local queue view wholesale. Mid-playback the
// current entry is re-located by id in the new list; if a host removed it,
// the sequencer advances as if the entry had ended, without replaying it
// and without marking it played.
func (s *Sequencer) ApplySnapshot(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.entries
	s.entries = entries

	if len(entries) == 0 {
		s.currentId = ""
		s.state = Idle
		return
	}

	if s.state == Idle {
		s.startLocked(entries[0])
		return
	}

	if s.indexOfLocked(s.currentId) >= 0 {
		return
	}

	// current entry was removed out from under us
	s.startLocked(s.successorOf(previous, s.currentId))
}

// Ended handles the player's "ended" lifecycle event: the current entry is
// marked played and playback advances to the next pending entry, wrapping
// to the head at the tail of the queue.
func (s *Sequencer) Ended() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle || s.currentId == "" {
		return
	}

	endedId := s.currentId
	if s.markPlayed != nil {
		s.markPlayed(endedId)
	}

	if len(s.entries) == 0 {
		s.currentId = ""
		s.state = Idle
		return
	}

	s.startLocked(s.successorOf(s.entries, endedId))
}

// Skip is "ended" without waiting for natural completion.
func (s *Sequencer) Skip() {
	s.Ended()
}

func (s *Sequencer) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Paused {
		return
	}

	s.state = Playing
	s.player.Play()
}

func (s *Sequencer) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return
	}

	s.state = Paused
	s.player.Pause()
}

// SetVolume clamps to [0,100] and forwards to the player.
func (s *Sequencer) SetVolume(volume int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clamp(volume, 0, 100)
	s.player.SetVolume(s.volume)

	return s.volume
}

// SetKeyAdjustment stores the clamped semitone shift. No player capability
// enacts it yet, so ErrCapabilityUnsupported is returned alongside the
// accepted value.
func (s *Sequencer) SetKeyAdjustment(semitones int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyAdjustment = clamp(semitones, minKeyAdjustment, maxKeyAdjustment)

	return s.keyAdjustment, ErrCapabilityUnsupported
}

// SetVocalRemoval stores the flag; same capability limitation as key
// adjustment.
func (s *Sequencer) SetVocalRemoval(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vocalRemoval = enabled

	return ErrCapabilityUnsupported
}

func (s *Sequencer) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return PlaybackState{
		State:          s.state,
		CurrentEntryId: s.currentId,
		Volume:         s.volume,
		KeyAdjustment:  s.keyAdjustment,
		VocalRemoval:   s.vocalRemoval,
	}
}

// startLocked loads the entry and begins (or resumes at) playback.
func (s *Sequencer) startLocked(entry Entry) {
	s.currentId = entry.Id
	s.player.Load(entry)

	if s.state != Paused {
		s.state = Playing
		s.player.Play()
	}
}

func (s *Sequencer) indexOfLocked(entryId string) int {
	for i, entry := range s.entries {
		if entry.Id == entryId {
			return i
		}
	}

	return -1
}

// successorOf picks the entry that followed afterId in the given ordering
// and still exists in the current snapshot, wrapping to the head. afterId
// itself may already be gone from the list.
func (s *Sequencer) successorOf(ordering []Entry, afterId string) Entry {
	passed := false
	for _, entry := range ordering {
		if entry.Id == afterId {
			passed = true
			continue
		}

		if passed && s.indexOfLocked(entry.Id) >= 0 {
			return entry
		}
	}

	return s.entries[0]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
