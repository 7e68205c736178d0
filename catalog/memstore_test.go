package catalog

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cacheaside"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory Store that counts calls per method.
type memStore[E record[E]] struct {
	mu      sync.Mutex
	items   map[uuid.UUID]E
	order   []uuid.UUID
	setID   func(*E, uuid.UUID)
	calls   map[string]int
	failOn  map[string]error
	saveErr func(E) error
}

func newMemStore[E record[E]](setID func(*E, uuid.UUID)) *memStore[E] {
	return &memStore[E]{
		items:  make(map[uuid.UUID]E),
		setID:  setID,
		calls:  make(map[string]int),
		failOn: make(map[string]error),
	}
}

func (m *memStore[E]) track(method string) error {
	m.calls[method]++
	return m.failOn[method]
}

func (m *memStore[E]) count(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *memStore[E]) reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for method, n := range m.calls {
		if method != "Save" && method != "Delete" {
			total += n
		}
	}
	return total
}

func (m *memStore[E]) FindAll(ctx context.Context) ([]E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.track("FindAll"); err != nil {
		return nil, err
	}
	return m.filter(func(E) bool { return true }), nil
}

func (m *memStore[E]) FindByID(ctx context.Context, id uuid.UUID) (E, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.track("FindByID"); err != nil {
		var zero E
		return zero, false, err
	}
	e, ok := m.items[id]
	if !ok {
		return e, false, nil
	}
	return e.Clone(), true, nil
}

func (m *memStore[E]) FindAllByID(ctx context.Context, ids []uuid.UUID) ([]E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.track("FindAllByID"); err != nil {
		return nil, err
	}
	out := []E{}
	for _, id := range ids {
		if e, ok := m.items[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (m *memStore[E]) Save(ctx context.Context, e E) (E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.track("Save"); err != nil {
		return e, err
	}
	if m.saveErr != nil {
		if err := m.saveErr(e); err != nil {
			return e, err
		}
	}
	if e.GetID() == uuid.Nil {
		m.setID(&e, uuid.New())
	}
	if _, ok := m.items[e.GetID()]; !ok {
		m.order = append(m.order, e.GetID())
	}
	m.items[e.GetID()] = e.Clone()
	return e.Clone(), nil
}

func (m *memStore[E]) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.track("Delete"); err != nil {
		return err
	}
	delete(m.items, id)
	m.order = removeID(m.order, id)
	return nil
}

// snapshot captures the stored entities and returns a function restoring them.
func (m *memStore[E]) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, order := maps.Clone(m.items), slices.Clone(m.order)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.items, m.order = items, order
	}
}

// get returns the stored entity without counting a call.
func (m *memStore[E]) get(id uuid.UUID) (E, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	return e.Clone(), ok
}

// peek finds the first match without counting a call.
func (m *memStore[E]) peek(match func(E) bool) (E, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero E
	found := m.filter(match)
	if len(found) == 0 {
		return zero, false
	}
	return found[0], true
}

// seed stores e directly, bypassing counters.
func (m *memStore[E]) seed(e E) E {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.GetID() == uuid.Nil {
		m.setID(&e, uuid.New())
	}
	if _, ok := m.items[e.GetID()]; !ok {
		m.order = append(m.order, e.GetID())
	}
	m.items[e.GetID()] = e.Clone()
	return e
}

// filter must be called with m.mu held
func (m *memStore[E]) filter(keep func(E) bool) []E {
	out := []E{}
	for _, id := range m.order {
		if e := m.items[id]; keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (m *memStore[E]) findOne(method string, match func(E) bool) (E, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero E
	if err := m.track(method); err != nil {
		return zero, false, err
	}
	found := m.filter(match)
	if len(found) == 0 {
		return zero, false, nil
	}
	return found[0], true, nil
}

func (m *memStore[E]) findMany(method string, match func(E) bool) ([]E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.track(method); err != nil {
		return nil, err
	}
	return m.filter(match), nil
}

type memAlbums struct {
	*memStore[Album]
	db *memDB
}

func (m *memAlbums) FindByName(ctx context.Context, name string) ([]Album, error) {
	return m.findMany("FindByName", func(a Album) bool { return a.Name == name })
}

func (m *memAlbums) FindByGenreName(ctx context.Context, genre string) ([]Album, error) {
	g, ok := m.db.genres.peek(func(g Genre) bool { return g.Name == genre })
	return m.findMany("FindByGenreName", func(a Album) bool {
		if !ok {
			return false
		}
		for _, trackID := range a.TrackIDs {
			if t, found := m.db.tracks.get(trackID); found && slices.Contains(t.GenreIDs, g.ID) {
				return true
			}
		}
		return false
	})
}

type memArtists struct{ *memStore[Artist] }

func (m *memArtists) FindByName(ctx context.Context, name string) (Artist, bool, error) {
	return m.findOne("FindByName", func(a Artist) bool { return a.Name == name })
}

type memTracks struct {
	*memStore[Track]
	db *memDB
}

func (m *memTracks) FindByName(ctx context.Context, name string) ([]Track, error) {
	return m.findMany("FindByName", func(t Track) bool { return t.Name == name })
}

func (m *memTracks) FindByArtistName(ctx context.Context, artist string) ([]Track, error) {
	a, ok := m.db.artists.peek(func(a Artist) bool { return a.Name == artist })
	return m.findMany("FindByArtistName", func(t Track) bool {
		return ok && t.AlbumID.Valid && slices.Contains(a.AlbumIDs, t.AlbumID.UUID)
	})
}

type memGenres struct{ *memStore[Genre] }

func (m *memGenres) FindByName(ctx context.Context, name string) (Genre, bool, error) {
	return m.findOne("FindByName", func(g Genre) bool { return g.Name == name })
}

type memPlaylists struct{ *memStore[Playlist] }

func (m *memPlaylists) FindByName(ctx context.Context, name string) ([]Playlist, error) {
	return m.findMany("FindByName", func(p Playlist) bool { return p.Name == name })
}

func (m *memPlaylists) FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]Playlist, error) {
	return m.findMany("FindByAuthorID", func(p Playlist) bool { return p.AuthorID == authorID })
}

type memUsers struct{ *memStore[User] }

func (m *memUsers) FindByName(ctx context.Context, name string) (User, bool, error) {
	return m.findOne("FindByName", func(u User) bool { return u.Name == name })
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	return m.findOne("FindByEmail", func(u User) bool { return u.Email == email })
}

type memDB struct {
	txMu      sync.Mutex
	commits   int
	rollbacks int

	albums    *memAlbums
	artists   *memArtists
	tracks    *memTracks
	genres    *memGenres
	playlists *memPlaylists
	users     *memUsers
}

func newMemDB() *memDB {
	db := &memDB{
		artists:   &memArtists{newMemStore(func(a *Artist, id uuid.UUID) { a.ID = id })},
		genres:    &memGenres{newMemStore(func(g *Genre, id uuid.UUID) { g.ID = id })},
		playlists: &memPlaylists{newMemStore(func(p *Playlist, id uuid.UUID) { p.ID = id })},
		users:     &memUsers{newMemStore(func(u *User, id uuid.UUID) { u.ID = id })},
	}
	db.albums = &memAlbums{newMemStore(func(a *Album, id uuid.UUID) { a.ID = id }), db}
	db.tracks = &memTracks{newMemStore(func(t *Track, id uuid.UUID) { t.ID = id }), db}
	return db
}

func (db *memDB) stores() Stores {
	return Stores{
		Albums:    db.albums,
		Artists:   db.artists,
		Tracks:    db.tracks,
		Genres:    db.genres,
		Playlists: db.playlists,
		Users:     db.users,
		Tx:        db,
	}
}

// RunInTx serialises transactions and restores every store when fn fails.
func (db *memDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	restores := []func(){
		db.albums.snapshot(),
		db.artists.snapshot(),
		db.tracks.snapshot(),
		db.genres.snapshot(),
		db.playlists.snapshot(),
		db.users.snapshot(),
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		db.rollbacks++
		return err
	}
	db.commits++
	return nil
}

type fixture struct {
	db      *memDB
	cache   *cacheinfra.FIFOCache
	catalog *Catalog
}

func newFixture() *fixture {
	db := newMemDB()
	c := cacheinfra.NewFIFOCache(100, nil)
	aside := cacheaside.New(c, nil, zap.NewNop())
	return &fixture{db: db, cache: c, catalog: New(db.stores(), aside, zap.NewNop())}
}
