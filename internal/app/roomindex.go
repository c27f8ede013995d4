package app

import "github.com/yeick81/ChatTiempoRealKonecta/internal/domain"

// roomIndex is the derived room → member-id view. It has no lock of its
// own: the owning Registry mutates it inside the same critical section as
// the records it is derived from, so the two can never be observed apart.
type roomIndex struct {
	rooms map[domain.RoomName]map[domain.ConnectionID]struct{}
}

func newRoomIndex() roomIndex {
	return roomIndex{rooms: make(map[domain.RoomName]map[domain.ConnectionID]struct{})}
}

func (ix *roomIndex) add(room domain.RoomName, id domain.ConnectionID) {
	members, ok := ix.rooms[room]
	if !ok {
		members = make(map[domain.ConnectionID]struct{})
		ix.rooms[room] = members
	}
	members[id] = struct{}{}
}

// remove drops the membership and forgets the room once it empties,
// so abandoned rooms do not accumulate.
func (ix *roomIndex) remove(room domain.RoomName, id domain.ConnectionID) {
	members, ok := ix.rooms[room]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(ix.rooms, room)
	}
}

func (ix *roomIndex) membersOf(room domain.RoomName) []domain.ConnectionID {
	members := ix.rooms[room]
	out := make([]domain.ConnectionID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}
