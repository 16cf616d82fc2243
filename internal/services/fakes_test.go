package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/catalog"
	"cozyminds/internal/metrics"
	"cozyminds/internal/models/db_models"
	"cozyminds/internal/repositories"
	mem "cozyminds/pkg/memcache"
	"cozyminds/pkg/utils"
)

// memStore backs the fake repositories so that a test sees one consistent database.
type memStore struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]db_models.Account
	journals   []db_models.Journal
	inventory  map[uuid.UUID][]db_models.InventoryItem
	mails      map[uuid.UUID]db_models.Mail
	recipients map[uuid.UUID]map[uuid.UUID]bool

	// interfere runs once against the stored account right before the next state write,
	// simulating a concurrent writer.
	interfere func(*db_models.Account)
	failMail  error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:   map[uuid.UUID]db_models.Account{},
		inventory:  map[uuid.UUID][]db_models.InventoryItem{},
		mails:      map[uuid.UUID]db_models.Mail{},
		recipients: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func parseID(id string) (uuid.UUID, bool) {
	u, err := uuid.Parse(id)
	return u, err == nil
}

func (s *memStore) casLocked(account *db_models.Account) error {
	stored, ok := s.accounts[account.ID]
	if !ok {
		return utils.ErrStaleWrite
	}
	if s.interfere != nil {
		s.interfere(&stored)
		stored.Version++
		s.accounts[account.ID] = stored
		s.interfere = nil
	}
	if stored.Version != account.Version {
		return utils.ErrStaleWrite
	}
	account.Version++
	s.accounts[account.ID] = *account
	return nil
}

// ---------- accounts ----------

type fakeAccountRepo struct{ s *memStore }

var _ repositories.AccountRepository = fakeAccountRepo{}

func (r fakeAccountRepo) InsertTx(_ context.Context, account *db_models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == account.Email {
			return utils.ErrEmailAlreadyExists
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now().Unix()
	r.s.accounts[account.ID] = *account
	return nil
}

func (r fakeAccountRepo) FindById(_ context.Context, id string) (*db_models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	a, ok := r.s.accounts[u]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r fakeAccountRepo) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

func (r fakeAccountRepo) UpdateState(_ context.Context, account *db_models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.casLocked(account)
}

func (r fakeAccountRepo) UpdateProfile(_ context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, _ := parseID(id)
	a, ok := r.s.accounts[u]
	if !ok {
		return utils.ErrAccountNotFound
	}
	for k, v := range fields {
		switch k {
		case "nickname":
			a.Nickname = v.(string)
		case "email":
			a.Email = v.(string)
		case "gender":
			a.Gender = v.(string)
		case "subscribe":
			a.Subscribe = v.(bool)
		case "age":
			age := v.(int)
			a.Age = &age
		}
	}
	r.s.accounts[u] = a
	return nil
}

func (r fakeAccountRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, _ := parseID(id)
	a, ok := r.s.accounts[u]
	if !ok {
		return utils.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	r.s.accounts[u] = a
	return nil
}

func (r fakeAccountRepo) SetRoleByEmail(_ context.Context, email, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.accounts {
		if a.Email == email {
			a.Role = role
			r.s.accounts[id] = a
			return true, nil
		}
	}
	return false, nil
}

func (r fakeAccountRepo) DeleteCascade(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, _ := parseID(id)
	if _, ok := r.s.accounts[u]; !ok {
		return false, nil
	}
	kept := r.s.journals[:0]
	for _, j := range r.s.journals {
		if j.AccountID != u {
			kept = append(kept, j)
		}
	}
	r.s.journals = kept
	delete(r.s.inventory, u)
	for mailID, rs := range r.s.recipients {
		delete(rs, u)
		if len(rs) == 0 {
			delete(r.s.recipients, mailID)
			delete(r.s.mails, mailID)
		}
	}
	delete(r.s.accounts, u)
	return true, nil
}

// ---------- journals ----------

type fakeJournalRepo struct{ s *memStore }

var _ repositories.JournalRepository = fakeJournalRepo{}

func (r fakeJournalRepo) CreateWithAccountState(_ context.Context, journal *db_models.Journal, account *db_models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.casLocked(account); err != nil {
		return err
	}
	if journal.ID == uuid.Nil {
		journal.ID = uuid.New()
	}
	r.s.journals = append(r.s.journals, *journal)
	return nil
}

func (r fakeJournalRepo) FindByID(_ context.Context, accountID, id string) (*db_models.Journal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range r.s.journals {
		if j.ID.String() == id && j.AccountID.String() == accountID {
			return &j, nil
		}
	}
	return nil, nil
}

func (r fakeJournalRepo) owned(accountID, collection string) []db_models.Journal {
	var out []db_models.Journal
	for _, j := range r.s.journals {
		if j.AccountID.String() != accountID {
			continue
		}
		if collection != "" && !containsString(j.Collections, collection) {
			continue
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date.After(out[b].Date) })
	return out
}

func (r fakeJournalRepo) List(_ context.Context, accountID, collection string, page, pageSize int) ([]db_models.Journal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.owned(accountID, collection)
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r fakeJournalRepo) Recent(_ context.Context, accountID string, limit int) ([]db_models.Journal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.owned(accountID, "")
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r fakeJournalRepo) Update(_ context.Context, journal *db_models.Journal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, j := range r.s.journals {
		if j.ID == journal.ID && j.AccountID == journal.AccountID {
			r.s.journals[i] = *journal
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r fakeJournalRepo) Delete(_ context.Context, accountID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, j := range r.s.journals {
		if j.ID.String() == id && j.AccountID.String() == accountID {
			r.s.journals = append(r.s.journals[:i], r.s.journals[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r fakeJournalRepo) distinct(accountID string, pick func(db_models.Journal) []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, j := range r.owned(accountID, "") {
		for _, v := range pick(j) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (r fakeJournalRepo) Collections(_ context.Context, accountID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.distinct(accountID, func(j db_models.Journal) []string { return j.Collections }), nil
}

func (r fakeJournalRepo) Tags(_ context.Context, accountID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.distinct(accountID, func(j db_models.Journal) []string { return j.Tags }), nil
}

func without(list []string, v string) ([]string, bool) {
	out := make([]string, 0, len(list))
	removed := false
	for _, s := range list {
		if s == v {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out, removed
}

func (r fakeJournalRepo) RemoveCollection(_ context.Context, accountID, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i, j := range r.s.journals {
		if j.AccountID.String() != accountID {
			continue
		}
		if next, ok := without(j.Collections, name); ok {
			r.s.journals[i].Collections = next
			n++
		}
	}
	return n, nil
}

func (r fakeJournalRepo) RemoveTag(_ context.Context, accountID, tag string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i, j := range r.s.journals {
		if j.AccountID.String() != accountID {
			continue
		}
		if next, ok := without(j.Tags, tag); ok {
			r.s.journals[i].Tags = next
			n++
		}
	}
	return n, nil
}

// ---------- inventory ----------

type fakeInventoryRepo struct{ s *memStore }

var _ repositories.InventoryRepository = fakeInventoryRepo{}

func (r fakeInventoryRepo) ListForAccount(_ context.Context, accountID string) ([]db_models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, _ := parseID(accountID)
	return append([]db_models.InventoryItem(nil), r.s.inventory[u]...), nil
}

func (r fakeInventoryRepo) ApplyPurchase(_ context.Context, account *db_models.Account, item *db_models.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.casLocked(account); err != nil {
		return err
	}
	items := r.s.inventory[account.ID]
	for i := range items {
		if items[i].ItemID == item.ItemID {
			items[i].Quantity = item.Quantity
			return nil
		}
	}
	r.s.inventory[account.ID] = append(items, *item)
	return nil
}

// ---------- mail ----------

type fakeMailRepo struct{ s *memStore }

var _ repositories.MailRepository = fakeMailRepo{}

func (r fakeMailRepo) CreateFor(_ context.Context, mail *db_models.Mail, accountIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMail != nil {
		return r.s.failMail
	}
	if mail.ID == uuid.Nil {
		mail.ID = uuid.New()
	}
	r.s.mails[mail.ID] = *mail
	rs := map[uuid.UUID]bool{}
	for _, id := range accountIDs {
		rs[id] = false
	}
	r.s.recipients[mail.ID] = rs
	return nil
}

func (r fakeMailRepo) Broadcast(_ context.Context, mail *db_models.Mail) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.accounts) == 0 {
		return 0, utils.ErrNoRecipients
	}
	if mail.ID == uuid.Nil {
		mail.ID = uuid.New()
	}
	r.s.mails[mail.ID] = *mail
	rs := map[uuid.UUID]bool{}
	for id := range r.s.accounts {
		rs[id] = false
	}
	r.s.recipients[mail.ID] = rs
	return int64(len(rs)), nil
}

func (r fakeMailRepo) ListForAccount(_ context.Context, accountID string) ([]repositories.MailWithReadRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, _ := parseID(accountID)
	var rows []repositories.MailWithReadRow
	for mailID, rs := range r.s.recipients {
		read, ok := rs[u]
		if !ok {
			continue
		}
		m := r.s.mails[mailID]
		rows = append(rows, repositories.MailWithReadRow{
			ID: m.ID, Sender: m.Sender, Title: m.Title, Content: m.Content, Date: m.Date, Read: read,
		})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].Date.After(rows[b].Date) })
	return rows, nil
}

func (r fakeMailRepo) Exists(_ context.Context, mailID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, _ := parseID(mailID)
	_, ok := r.s.mails[u]
	return ok, nil
}

func (r fakeMailRepo) MarkRead(_ context.Context, mailID, accountID string, _ time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, _ := parseID(mailID)
	a, _ := parseID(accountID)
	rs, ok := r.s.recipients[m]
	if !ok {
		return false, nil
	}
	if _, ok := rs[a]; !ok {
		return false, nil
	}
	rs[a] = true
	return true, nil
}

func (r fakeMailRepo) DeleteForRecipient(_ context.Context, mailID, accountID string) (bool, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, _ := parseID(mailID)
	a, _ := parseID(accountID)
	rs, ok := r.s.recipients[m]
	if !ok {
		return false, false, nil
	}
	if _, ok := rs[a]; !ok {
		return false, false, nil
	}
	delete(rs, a)
	if len(rs) == 0 {
		delete(r.s.recipients, m)
		delete(r.s.mails, m)
		return true, true, nil
	}
	return true, false, nil
}

// ---------- wiring ----------

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	store    *memStore
	clock    *clock
	metrics  *metrics.Metrics
	denylist *mem.RevokedTokens
	accounts AccountServiceInterface
	journals JournalServiceInterface
	shop     ShopServiceInterface
	mail     IMailService
	tags     TagServiceInterface
	hasher   *countingHasher
}

// countingHasher records how often passwords are compared.
type countingHasher struct {
	*utils.PasswordHasher
	mu       sync.Mutex
	compares int
}

func (h *countingHasher) ComparePasswords(hashedPassword string, plainPassword string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	return h.PasswordHasher.ComparePasswords(hashedPassword, plainPassword)
}

func (h *countingHasher) Compares() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compares
}

func testHasher() *utils.PasswordHasher {
	return utils.NewPasswordHasher(utils.Argon2Params{
		MemoryKB:    1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func newTestEnv() *testEnv {
	store := newMemStore()
	clk := &clock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	calendar := Calendar{Location: time.UTC, Now: clk.Now}
	m := metrics.New()
	logger := zap.NewNop()
	denylist := mem.NewRevokedTokens()

	accountRepo := fakeAccountRepo{store}
	mailService := NewMailService(DefaultMailConfig(), fakeMailRepo{store}, calendar, m, logger)
	shop := NewShopService(catalog.Default(), accountRepo, fakeInventoryRepo{store}, m, logger)
	hasher := &countingHasher{PasswordHasher: testHasher()}

	return &testEnv{
		store:    store,
		clock:    clk,
		metrics:  m,
		denylist: denylist,
		accounts: NewAccountService(accountRepo, mailService, hasher,
			utils.NewTokenIssuer("test-secret-key-123456", time.Hour), denylist, calendar, m, logger),
		journals: NewJournalService(fakeJournalRepo{store}, accountRepo, shop, calendar, m, logger),
		shop:     shop,
		mail:     mailService,
		tags:     NewTagService(fakeJournalRepo{store}, logger),
		hasher:   hasher,
	}
}

// account returns the stored row for id.
func (e *testEnv) account(id string) db_models.Account {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	u, _ := parseID(id)
	return e.store.accounts[u]
}

// setCoins writes a balance directly, bypassing the version check.
func (e *testEnv) setCoins(id string, coins int) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	u, _ := parseID(id)
	a := e.store.accounts[u]
	a.Coins = coins
	e.store.accounts[u] = a
}

// counterValue sums every series of the named counter family.
func counterValue(t *testing.T, env *testEnv, name string) float64 {
	t.Helper()
	families, err := env.metrics.Registry.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
