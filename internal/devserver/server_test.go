package devserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melkban/dealdesk/internal/api"
	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
	"github.com/melkban/dealdesk/internal/devserver"
	"github.com/melkban/dealdesk/internal/ledger"
)

func newClient(t *testing.T) *api.Client {
	t.Helper()

	srv := httptest.NewServer(devserver.New(devserver.NewStore()))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = 5 * time.Second
	cfg.CSRF.CookieName = "csrftoken"
	cfg.CSRF.Header = "X-CSRFToken"

	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	require.NoError(t, client.EnsureSession(context.Background()))

	return client
}

func TestServer_ListAndFilter(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	page, err := client.ListDeals(ctx, deal.Query{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Count)

	filtered, err := client.ListDeals(ctx, deal.Query{Status: deal.StatusPending})
	require.NoError(t, err)
	require.Len(t, filtered.Results, 1)
	assert.Equal(t, deal.StatusPending, filtered.Results[0].Status)

	searched, err := client.ListDeals(ctx, deal.Query{Search: "زمین"})
	require.NoError(t, err)
	require.Len(t, searched.Results, 1)
	assert.Equal(t, "پیش‌نویس فروش زمین", searched.Results[0].Title)
}

func TestServer_MutationWithoutTokenRejected(t *testing.T) {
	srv := httptest.NewServer(devserver.New(devserver.NewStore()))
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/deals/1/approve/", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_ApproveLifecycle(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.ApproveDeal(ctx, 1))

	d, err := client.GetDeal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, deal.StatusApproved, d.StatusCode)

	// A second approval is a conflict with a user-facing message.
	err = client.ApproveDeal(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, "فقط معاملات در انتظار تایید مدیر قابل تایید هستند.", err.Error())
}

func TestServer_RejectRecordsReason(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.RejectDeal(ctx, 1, "قیمت توافق نشد"))

	d, err := client.GetDeal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, deal.StatusRejected, d.StatusCode)
	assert.Equal(t, "قیمت توافق نشد", d.RejectionReason)
}

func TestServer_DeleteOnlyDrafts(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.DeleteDeal(ctx, 3))

	_, err := client.GetDeal(ctx, 3)
	require.Error(t, err)

	err = client.DeleteDeal(ctx, 1)
	require.Error(t, err, "non-draft deals cannot be deleted")
}

func TestServer_ConsultantApprovalAdvancesDeal(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	// Deal 2 waits on consultants; consultant 1 already counter-proposed,
	// so the viewer's approval alone cannot advance it.
	require.NoError(t, client.SubmitConsultantApproval(ctx, 2, deal.ApprovalSubmission{
		Status: deal.ApprovalApproved,
	}))

	d, err := client.GetDeal(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, deal.StatusConsultantPending, d.StatusCode)

	require.NotNil(t, d.MyConsultantApproval)
	assert.Equal(t, deal.ApprovalApproved, d.MyConsultantApproval.Status)

	// Responding twice is refused.
	err = client.SubmitConsultantApproval(ctx, 2, deal.ApprovalSubmission{
		Status: deal.ApprovalApproved,
	})
	require.Error(t, err)
	assert.Equal(t, "نظر شما قبلاً ثبت شده است.", err.Error())
}

func TestServer_ConsultantCounterNeedsAmount(t *testing.T) {
	client := newClient(t)

	err := client.SubmitConsultantApproval(context.Background(), 2, deal.ApprovalSubmission{
		Status: deal.ApprovalReview,
	})

	require.Error(t, err)
	assert.Equal(t, "مبلغ پیشنهادی الزامی است.", err.Error())
}

func TestServer_PaymentLifecycle(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	msg, err := client.RegisterPayment(ctx, 1, ledger.PaymentParams{
		Account:     "1002",
		Amount:      75_000_000,
		Method:      "چک",
		Description: "کمیسیون مرحله دوم",
		Date:        "1403/06/01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	book, err := client.AccountsPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, book.Pending, 2, "registered payment joins the pending queue")

	registered := book.Pending[1]
	assert.Equal(t, int64(75_000_000), registered.Amount)

	// Approving posts it to the account ledger.
	require.NoError(t, client.ApprovePending(ctx, registered.ID))

	book, err = client.AccountsPage(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, book.Pending, 1)
	require.Len(t, book.Transactions("1002"), 1)
	assert.Equal(t, int64(75_000_000), book.Transactions("1002")[0].Amount)

	// Rejecting drops the remaining one without posting.
	require.NoError(t, client.RejectPending(ctx, book.Pending[0].ID, "مدرک ناقص"))

	book, err = client.AccountsPage(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, book.Pending)
	assert.Len(t, book.Transactions("1002"), 1)
}

func TestServer_ReceiptRoundTrip(t *testing.T) {
	client := newClient(t)

	body, contentType, err := client.FetchReceipt(context.Background(), "/receipts/1.png")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "image/png", contentType)
}
