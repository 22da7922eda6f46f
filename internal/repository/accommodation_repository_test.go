package repository

import (
	"errors"
	"testing"

	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

func newTestRepos(t *testing.T) (*OwnerRepo, *AccommodationRepo, *model.Owner) {
	t.Helper()
	owners := NewOwnerRepo()
	owner, err := owners.Add("Bruno Silva", "bruno@example.com", "+351961112222")
	if err != nil {
		t.Fatalf("add owner: %v", err)
	}
	return owners, NewAccommodationRepo(owners), owner
}

func TestCreateAccommodationAttachesOwner(t *testing.T) {
	owners, accs, owner := newTestRepos(t)

	acc, err := accs.Create(owner.ID, model.AccommodationHotel, "Seaside Hotel", "1 Beach Road, Faro")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if acc.ID() != 1 || acc.OwnerID() != owner.ID {
		t.Fatalf("accommodation wired wrong: id=%d owner=%d", acc.ID(), acc.OwnerID())
	}

	ids, err := owners.AccommodationIDs(owner.ID)
	if err != nil {
		t.Fatalf("AccommodationIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != acc.ID() {
		t.Fatalf("owner association missing: %v", ids)
	}

	if _, err := accs.Create(99, model.AccommodationHotel, "Ghost", "1 Nowhere Lane"); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("unknown owner must fail, got %v", err)
	}
}

func TestOwnerRemovalBlockedWhileHoldingProperties(t *testing.T) {
	owners, accs, owner := newTestRepos(t)
	acc, err := accs.Create(owner.ID, model.AccommodationHostel, "City Hostel", "2 Main Street, Porto")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := owners.Remove(owner.ID); !errors.Is(err, ErrOwnerHasProperties) {
		t.Fatalf("owner with properties must not be removable, got %v", err)
	}

	if err := accs.Delete(acc.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ids, err := owners.AccommodationIDs(owner.ID)
	if err != nil {
		t.Fatalf("AccommodationIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("association must be gone after delete: %v", ids)
	}
	if err := owners.Remove(owner.ID); err != nil {
		t.Fatalf("Remove after delete: %v", err)
	}
}

func TestDeleteAccommodationGuardsBookings(t *testing.T) {
	_, accs, owner := newTestRepos(t)
	acc, err := accs.Create(owner.ID, model.AccommodationHotel, "Seaside Hotel", "1 Beach Road, Faro")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	room, err := accs.AddRoom(acc.ID(), model.RoomDouble, 7500)
	if err != nil {
		t.Fatalf("AddRoom: %v", err)
	}

	rng, err := model.NewDateRange(day(10), day(12))
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}
	if err := room.Calendar().Add(rng); err != nil {
		t.Fatalf("calendar add: %v", err)
	}

	if err := accs.Delete(acc.ID()); !errors.Is(err, ErrAccommodationOccupied) {
		t.Fatalf("booked accommodation must not be deletable, got %v", err)
	}
	if _, err := accs.Get(acc.ID()); err != nil {
		t.Fatalf("failed delete must keep the accommodation: %v", err)
	}

	if !room.Calendar().Remove(rng) {
		t.Fatalf("calendar remove failed")
	}
	if err := accs.Delete(acc.ID()); err != nil {
		t.Fatalf("Delete after freeing: %v", err)
	}
	if _, err := accs.Get(acc.ID()); !errors.Is(err, ErrAccommodationNotFound) {
		t.Fatalf("deleted accommodation still resolvable, got %v", err)
	}
}

func TestAddRoomMintsEngineWideIDs(t *testing.T) {
	_, accs, owner := newTestRepos(t)
	first, err := accs.Create(owner.ID, model.AccommodationHotel, "Seaside Hotel", "1 Beach Road, Faro")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := accs.Create(owner.ID, model.AccommodationGuesthouse, "Hill House", "3 High Street, Braga")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	r1, err := accs.AddRoom(first.ID(), model.RoomSingle, 5000)
	if err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	r2, err := accs.AddRoom(second.ID(), model.RoomSuite, 12000)
	if err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if r1.ID() == r2.ID() {
		t.Fatalf("room ids must be unique across accommodations, both %d", r1.ID())
	}

	got, err := accs.Room(second.ID(), r2.ID())
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	if got != r2 {
		t.Fatalf("Room resolved a different instance")
	}
	if _, err := accs.Room(first.ID(), r2.ID()); !errors.Is(err, model.ErrRoomNotFound) {
		t.Fatalf("room lookup must stay inside the accommodation, got %v", err)
	}
	if _, err := accs.Room(99, r1.ID()); !errors.Is(err, ErrAccommodationNotFound) {
		t.Fatalf("unknown accommodation must fail, got %v", err)
	}
}

func TestRestoreObservesAccommodationAndRoomIDs(t *testing.T) {
	owners := NewOwnerRepo()
	accs := NewAccommodationRepo(owners)

	owner, err := model.NewOwner(4, "Bruno Silva", "bruno@example.com", "+351961112222")
	if err != nil {
		t.Fatalf("NewOwner: %v", err)
	}
	if err := owners.Restore(owner, []uint64{7}); err != nil {
		t.Fatalf("restore owner: %v", err)
	}

	acc, err := model.NewAccommodation(7, 4, model.AccommodationHotel, "Seaside Hotel", "1 Beach Road, Faro")
	if err != nil {
		t.Fatalf("NewAccommodation: %v", err)
	}
	room, err := model.NewRoom(12, model.RoomDouble, 7500)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	if err := acc.AddRoom(room); err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if err := accs.Restore(acc); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := accs.Restore(acc); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("double restore must fail, got %v", err)
	}

	next, err := accs.Create(owner.ID, model.AccommodationHostel, "City Hostel", "2 Main Street, Porto")
	if err != nil {
		t.Fatalf("Create after restore: %v", err)
	}
	if next.ID() != 8 {
		t.Fatalf("accommodation id after restoring 7 = %d, want 8", next.ID())
	}
	newRoom, err := accs.AddRoom(next.ID(), model.RoomSingle, 4000)
	if err != nil {
		t.Fatalf("AddRoom after restore: %v", err)
	}
	if newRoom.ID() != 13 {
		t.Fatalf("room id after restoring 12 = %d, want 13", newRoom.ID())
	}

	ownerNext, err := owners.Add("Clara Reis", "clara@example.com", "+351931234567")
	if err != nil {
		t.Fatalf("add owner after restore: %v", err)
	}
	if ownerNext.ID != 5 {
		t.Fatalf("owner id after restoring 4 = %d, want 5", ownerNext.ID)
	}
}

func TestClientRepoRoundTrip(t *testing.T) {
	clients := NewClientRepo()

	client, err := clients.Add("Ana Costa", "ana@example.com", "+351912345678")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if client.ID != 1 {
		t.Fatalf("first client id = %d, want 1", client.ID)
	}
	if _, err := clients.Add("Bad", "not-an-email", "+351912345678"); err == nil {
		t.Fatalf("invalid client must be rejected")
	}

	got, err := clients.Get(client.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != client {
		t.Fatalf("Get returned a different client")
	}
	if _, err := clients.Get(42); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("missing client must fail, got %v", err)
	}

	if err := clients.Remove(client.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if clients.Len() != 0 {
		t.Fatalf("Len = %d after remove, want 0", clients.Len())
	}
}
