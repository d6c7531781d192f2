package memory

import (
	"sync"
	"time"

	"github.com/goods-gate/goods-gate/internal/domain/session"
)

const sessionShards = 32

type sessionShard struct {
	mu       sync.Mutex
	sessions map[int64]*session.Session
}

// SessionStore is the in-memory session.Store. Sessions are sharded by
// requester id so requesters do not contend with each other; a secondary
// index maps account ids to requester ids for decision routing.
type SessionStore struct {
	shards [sessionShards]*sessionShard

	indexMu   sync.RWMutex
	byAccount map[int64]int64
}

func NewSessionStore() *SessionStore {
	s := &SessionStore{byAccount: make(map[int64]int64)}
	for i := range s.shards {
		s.shards[i] = &sessionShard{sessions: make(map[int64]*session.Session)}
	}
	return s
}

func (s *SessionStore) shard(requesterID int64) *sessionShard {
	return s.shards[uint64(requesterID)%sessionShards]
}

func (s *SessionStore) Get(requesterID int64) (*session.Session, bool) {
	sh := s.shard(requesterID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[requesterID]
	if !ok {
		return nil, false
	}
	cp := *sess
	return &cp, true
}

func (s *SessionStore) Mutate(requesterID int64, fn func(*session.Session)) {
	sh := s.shard(requesterID)
	sh.mu.Lock()
	sess, ok := sh.sessions[requesterID]
	if !ok {
		sess = &session.Session{RequesterID: requesterID, State: session.StateIdle}
		sh.sessions[requesterID] = sess
	}
	fn(sess)
	sess.UpdatedAt = time.Now().UTC()
	ctx := sess.Context
	sh.mu.Unlock()

	if ctx != nil {
		s.indexMu.Lock()
		s.byAccount[ctx.AccountID] = requesterID
		s.indexMu.Unlock()
	}
}

func (s *SessionStore) Reset(requesterID int64) {
	sh := s.shard(requesterID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sess, ok := sh.sessions[requesterID]; ok {
		sess.Clear()
		sess.UpdatedAt = time.Now().UTC()
	}
}

func (s *SessionStore) FindByAccount(accountID int64) (*session.Session, bool) {
	s.indexMu.RLock()
	requesterID, ok := s.byAccount[accountID]
	s.indexMu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.Get(requesterID)
}

var _ session.Store = (*SessionStore)(nil)
