package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/melkban/dealdesk/internal/deal"
	"github.com/melkban/dealdesk/internal/ledger"
)

// viewerConsultantID is the consultant the stub treats as the signed-in
// viewer for consultant-approval submissions.
const viewerConsultantID int64 = 2

// Store is the in-memory fixture state behind the stub server.
type Store struct {
	mu sync.Mutex

	deals    map[int64]*deal.Deal
	books    map[int64]*ledger.Book
	nextDeal int64
	nextTx   int64
}

func ptr[T any](v T) *T { return &v }

// NewStore seeds a store with a small set of deals covering every status.
func NewStore() *Store {
	s := &Store{
		deals:    make(map[int64]*deal.Deal),
		books:    make(map[int64]*ledger.Book),
		nextDeal: 1,
		nextTx:   101,
	}

	consultants := []deal.Consultant{
		{ID: 1, Name: "رضا کریمی"},
		{ID: viewerConsultantID, Name: "سارا محمدی"},
	}

	s.seedDeal(&deal.Deal{
		Title:       "فروش آپارتمان ولیعصر",
		StatusCode:  deal.StatusPending,
		Type:        &deal.DealType{Name: "فروش"},
		Creator:     "مدیر دفتر",
		CreatedAt:   time.Now().AddDate(0, 0, -12).Format(time.RFC3339),
		Amount:      ptr[int64](12_500_000_000),
		BasePrice:   ptr[int64](12_000_000_000),
		Buyers:      []deal.Party{{Name: "علی رضایی", NationalID: "0012345678"}},
		Sellers:     []deal.Party{{Name: "مریم احمدی"}},
		Consultants: consultants,
		Splits: []deal.Split{
			{Role: deal.SplitOffice, Amount: ptr[int64](150_000_000)},
			{Role: deal.SplitConsultant, Amount: ptr[int64](100_000_000)},
		},
		ConsultantApprovals: []deal.ConsultantApproval{
			{Consultant: 1, Status: deal.ApprovalApproved, RespondedAt: ptr(time.Now().AddDate(0, 0, -2))},
			{Consultant: viewerConsultantID, Status: deal.ApprovalApproved, RespondedAt: ptr(time.Now().AddDate(0, 0, -1))},
		},
	})

	s.seedDeal(&deal.Deal{
		Title:       "رهن و اجاره واحد اداری",
		StatusCode:  deal.StatusConsultantPending,
		Type:        &deal.DealType{Name: "اجاره"},
		Creator:     "کارمند دفتر",
		CreatedAt:   time.Now().AddDate(0, 0, -5).Format(time.RFC3339),
		Amount:      ptr[int64](3_000_000_000),
		Consultants: consultants,
		ConsultantApprovals: []deal.ConsultantApproval{
			{Consultant: 1, Status: deal.ApprovalReview, SuggestedAmount: ptr[int64](80_000_000), Note: "سهم پیشنهادی", RespondedAt: ptr(time.Now())},
		},
	})

	s.seedDeal(&deal.Deal{
		Title:      "پیش‌نویس فروش زمین",
		StatusCode: deal.StatusInit,
		Type:       &deal.DealType{Name: "فروش"},
		Creator:    "کارمند دفتر",
		CreatedAt:  time.Now().AddDate(0, 0, -1).Format(time.RFC3339),
	})

	s.seedDeal(&deal.Deal{
		Title:           "معامله رد شده نمونه",
		StatusCode:      deal.StatusRejected,
		RejectionReason: "مغایرت قیمت",
		Type:            &deal.DealType{Name: "فروش"},
		CreatedAt:       time.Now().AddDate(0, -1, 0).Format(time.RFC3339),
	})

	s.books[1] = &ledger.Book{
		DealID:    1,
		DealTitle: "فروش آپارتمان ولیعصر",
		Accounts: []ledger.Account{
			{Code: "1001", Name: "حساب امانی"},
			{Code: "1002", Name: "کمیسیون دفتر"},
		},
		Payments: map[string][]ledger.Transaction{
			"1001": {
				{
					Date:          "1403/05/01",
					Direction:     "بستانکار",
					Amount:        500_000_000,
					Method:        "کارت",
					Description:   "پیش پرداخت",
					CreatedByName: "کارمند دفتر",
					ReceiptURL:    "/receipts/1.png",
				},
				{
					Date:        "1403/05/10",
					Direction:   "بدهکار",
					Amount:      120_000_000,
					Method:      "حواله",
					Description: "استرداد",
				},
			},
		},
		Pending: []ledger.PendingTransaction{
			{
				ID:          100,
				Account:     "1002",
				Date:        "1403/05/12",
				Direction:   "بستانکار",
				Amount:      150_000_000,
				Method:      "چک",
				Description: "کمیسیون",
			},
		},
		CanApprovePending: true,
	}

	return s
}

func (s *Store) seedDeal(d *deal.Deal) {
	d.ID = s.nextDeal
	s.nextDeal++

	if d.Status == "" {
		d.Status = d.StatusCode.Label()
	}

	if latest := d.LatestContract(); latest != nil {
		d.LatestContractID = &latest.ID
	}

	s.deals[d.ID] = d
}

// List applies search/status filters and pagination, mirroring the
// backend's list endpoint.
func (s *Store) List(search string, status deal.Status, page, size int) deal.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.deals))
	for id := range s.deals {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	matched := make([]deal.Summary, 0, len(ids))

	for _, id := range ids {
		d := s.deals[id]

		if search != "" && !strings.Contains(d.Title, search) {
			continue
		}

		if status != "" && d.StatusCode != status {
			continue
		}

		matched = append(matched, s.summarize(d))
	}

	count := len(matched)

	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = deal.PageSize
	}

	start := (page - 1) * size
	if start > count {
		start = count
	}

	end := start + size
	if end > count {
		end = count
	}

	return deal.Page{Count: count, Results: matched[start:end]}
}

func (s *Store) summarize(d *deal.Deal) deal.Summary {
	mine := d.ApprovalFor(viewerConsultantID)

	return deal.Summary{
		ID:                d.ID,
		Title:             d.Title,
		Status:            d.StatusCode,
		StatusDisplay:     d.StatusCode.Label(),
		Type:              d.Type,
		Creator:           d.Creator,
		CreatedAt:         d.CreatedAt,
		PendingMyApproval: d.StatusCode == deal.StatusConsultantPending && !mine.HasResponded(),
		LatestContractID:  d.LatestContractID,
	}
}

// Get returns a copy of the deal with the viewer's own approval attached.
func (s *Store) Get(id int64) (*deal.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deals[id]
	if !ok {
		return nil, false
	}

	snapshot := *d
	snapshot.MyConsultantApproval = d.ApprovalFor(viewerConsultantID)

	return &snapshot, true
}

// Approve moves a pending deal to approved.
func (s *Store) Approve(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deals[id]
	if !ok {
		return errNotFound
	}

	if d.StatusCode != deal.StatusPending {
		return errConflict("فقط معاملات در انتظار تایید مدیر قابل تایید هستند.")
	}

	d.StatusCode = deal.StatusApproved
	d.Status = d.StatusCode.Label()

	return nil
}

// Reject moves a pending deal to rejected with a reason.
func (s *Store) Reject(id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deals[id]
	if !ok {
		return errNotFound
	}

	if d.StatusCode != deal.StatusPending {
		return errConflict("فقط معاملات در انتظار تایید مدیر قابل رد هستند.")
	}

	d.StatusCode = deal.StatusRejected
	d.Status = d.StatusCode.Label()
	d.RejectionReason = reason

	return nil
}

// Delete removes a draft deal.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deals[id]
	if !ok {
		return errNotFound
	}

	if d.StatusCode != deal.StatusInit {
		return errConflict("فقط معاملات در وضعیت تعریف اولیه قابل حذف هستند.")
	}

	delete(s.deals, id)

	return nil
}

// SubmitApproval records the viewer consultant's response. When every
// assigned consultant has approved, the deal advances to manager review.
func (s *Store) SubmitApproval(id int64, submission deal.ApprovalSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deals[id]
	if !ok {
		return errNotFound
	}

	if d.StatusCode != deal.StatusConsultantPending {
		return errConflict("معامله در انتظار نظر مشاوران نیست.")
	}

	if existing := d.ApprovalFor(viewerConsultantID); existing.HasResponded() {
		return errConflict("نظر شما قبلاً ثبت شده است.")
	}

	record := deal.ConsultantApproval{
		Consultant:      viewerConsultantID,
		Status:          submission.Status,
		SuggestedAmount: submission.SuggestedAmount,
		RespondedAt:     ptr(time.Now()),
	}

	if submission.Note != nil {
		record.Note = *submission.Note
	}

	replaced := false

	for i := range d.ConsultantApprovals {
		if d.ConsultantApprovals[i].Consultant == viewerConsultantID {
			d.ConsultantApprovals[i] = record
			replaced = true

			break
		}
	}

	if !replaced {
		d.ConsultantApprovals = append(d.ConsultantApprovals, record)
	}

	if s.allApproved(d) {
		d.StatusCode = deal.StatusPending
		d.Status = d.StatusCode.Label()
	}

	return nil
}

func (s *Store) allApproved(d *deal.Deal) bool {
	for _, c := range d.Consultants {
		a := d.ApprovalFor(c.ID)
		if a == nil || a.Status != deal.ApprovalApproved {
			return false
		}
	}

	return len(d.Consultants) > 0
}

// Book returns the ledger book of a deal, creating an empty one on first
// access.
func (s *Store) Book(dealID int64) (*ledger.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deals[dealID]; !ok {
		return nil, false
	}

	b, ok := s.books[dealID]
	if !ok {
		b = &ledger.Book{
			DealID:   dealID,
			Payments: map[string][]ledger.Transaction{},
		}
		s.books[dealID] = b
	}

	snapshot := *b

	return &snapshot, true
}

// AddPending queues a registered payment as a pending transaction.
func (s *Store) AddPending(dealID int64, tx ledger.PendingTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[dealID]
	if !ok {
		if _, exists := s.deals[dealID]; !exists {
			return errNotFound
		}

		b = &ledger.Book{DealID: dealID, Payments: map[string][]ledger.Transaction{}}
		s.books[dealID] = b
	}

	tx.ID = s.nextTx
	s.nextTx++
	b.Pending = append(b.Pending, tx)

	return nil
}

// ApprovePending posts a pending transaction to its account's ledger.
func (s *Store) ApprovePending(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		for i, p := range b.Pending {
			if p.ID != id {
				continue
			}

			b.Pending = append(b.Pending[:i], b.Pending[i+1:]...)
			b.Payments[p.Account] = append(b.Payments[p.Account], ledger.Transaction{
				Date:        p.Date,
				Direction:   p.Direction,
				Amount:      p.Amount,
				Method:      p.Method,
				Description: p.Description,
			})

			return nil
		}
	}

	return errNotFound
}

// RejectPending drops a pending transaction.
func (s *Store) RejectPending(id int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		for i, p := range b.Pending {
			if p.ID != id {
				continue
			}

			b.Pending = append(b.Pending[:i], b.Pending[i+1:]...)

			return nil
		}
	}

	return errNotFound
}
