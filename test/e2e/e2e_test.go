// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankimport-workers/internal/common/config"
	"bankimport-workers/internal/common/database"
	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/links"
	"bankimport-workers/internal/notify"
	"bankimport-workers/internal/presenter"
	"bankimport-workers/internal/routing"

	classifytransactionmatch "bankimport-workers/internal/workers/bank-import/classify-transaction-match"
	resolvetransactionlinks "bankimport-workers/internal/workers/bank-import/resolve-transaction-links"
)

// supplierPayment is a processed supplier payment as the bank import module
// reports it: one explicit link list, keyed links and a type/number pair.
const supplierPayment = `{
  "trans_type": 22,
  "trans_no": 17,
  "links": [{"url": "purchasing/allocations/supplier_allocate.php?trans_no=17", "label": "Allocate", "kind": "allocate"}],
  "view_gl_link": "gl/view/gl_trans_view.php?type_id=22&trans_no=17",
  "payment_link": "purchasing/view/view_supp_payment.php?trans_no=17"
}`

type pipeline struct {
	classify *classifytransactionmatch.Handler
	resolve  *resolvetransactionlinks.Handler
	redis    *database.RedisClient
	channel  string
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	mr := miniredis.RunT(t)
	log := logger.NewTestLogger(t)

	cfg := config.NotificationConfig{Sink: config.SinkRedis}
	cfg.Redis.Channel = config.DefaultRedisChannel

	rdb := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sink, err := notify.FromConfig(cfg, notify.Deps{Redis: rdb, Logger: log})
	require.NoError(t, err)

	policy := routing.NewPolicy(routing.Config{
		PolicyByContext:   map[string][]string{"sp": {links.KindInvoice, links.KindPayment}},
		PolicyByTransType: map[string][]string{"22": {links.KindEntry}},
	})
	builder := links.NewBuilder(links.WithDeriveLinks(true), links.WithPrioritizer(policy))

	resolve, err := resolvetransactionlinks.NewHandler(
		&resolvetransactionlinks.Config{Timeout: 5 * time.Second},
		builder, presenter.New(sink, log), nil, log,
	)
	require.NoError(t, err)

	classify, err := classifytransactionmatch.NewHandler(classifytransactionmatch.LoadConfig(), nil, log)
	require.NoError(t, err)

	return &pipeline{classify: classify, resolve: resolve, redis: rdb, channel: cfg.Redis.Channel}
}

func TestBankImportPipeline(t *testing.T) {
	p := newPipeline(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := p.redis.Client.Subscribe(ctx, p.channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	// 1. Classify the candidates of the imported line.
	match, err := p.classify.Execute(ctx, &classifytransactionmatch.Input{Candidates: []classifytransactionmatch.CandidateInput{
		{Type: 22, TypeNo: 17, Score: 92, IsInvoice: true, Amount: "250.00"},
	}})
	require.NoError(t, err)
	require.True(t, match.Matched)
	assert.Equal(t, "SP", match.PartnerType)

	// 2. Feed the partner type into the route context of the links worker.
	var payload links.Payload
	require.NoError(t, json.Unmarshal([]byte(supplierPayment), &payload))

	out, err := p.resolve.Execute(ctx, &resolvetransactionlinks.Input{
		TransactionResult: payload,
		RouteContext:      &resolvetransactionlinks.RouteContextInput{PartnerType: match.PartnerType},
	})
	require.NoError(t, err)

	keys := make([]string, 0, len(out.Links))
	for _, l := range out.Links {
		keys = append(keys, l.Key)
	}
	// The payment link and the derived supplier payment view share a URL,
	// and the derived GL view duplicates view_gl_link.
	assert.Equal(t, []string{"payment_link", "links_0", "view_gl_link"}, keys)
	assert.Equal(t, "notification", out.OutputMode)

	// 3. Every anchor reaches the channel in output order.
	for i := 0; i < out.LinkCount; i++ {
		select {
		case msg := <-sub.Channel():
			var env notify.Envelope
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
			assert.Contains(t, env.HTML, out.Links[i].URL)
			assert.NotEmpty(t, env.ID)
		case <-ctx.Done():
			t.Fatalf("notification %d not received", i)
		}
	}
}

func TestBankImportPipeline_HTMLModeDoesNotNotify(t *testing.T) {
	p := newPipeline(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := p.redis.Client.Subscribe(ctx, p.channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	var payload links.Payload
	require.NoError(t, json.Unmarshal([]byte(supplierPayment), &payload))

	out, err := p.resolve.Execute(ctx, &resolvetransactionlinks.Input{TransactionResult: payload, OutputMode: "html"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.LinkCount)
	assert.NotEmpty(t, out.HTML)

	select {
	case msg := <-sub.Channel():
		t.Fatalf("unexpected notification: %s", msg.Payload)
	case <-time.After(200 * time.Millisecond):
	}
}

// TestZeebeTopology runs against a real broker when ZEEBE_ADDRESS is set.
func TestZeebeTopology(t *testing.T) {
	addr := os.Getenv("ZEEBE_ADDRESS")
	if addr == "" {
		t.Skip("ZEEBE_ADDRESS not set")
	}

	client, err := zbc.NewClient(&zbc.ClientConfig{GatewayAddress: addr, UsePlaintextConnection: true})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	topology, err := client.NewTopologyCommand().Send(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, topology.Brokers)
}

func BenchmarkHandler_ResolveTransactionLinks(b *testing.B) {
	handler, err := resolvetransactionlinks.NewHandler(
		&resolvetransactionlinks.Config{Timeout: 5 * time.Second},
		links.NewBuilder(links.WithDeriveLinks(true)), presenter.New(nil, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger(),
	)
	require.NoError(b, err)

	var payload links.Payload
	require.NoError(b, json.Unmarshal([]byte(supplierPayment), &payload))
	input := &resolvetransactionlinks.Input{TransactionResult: payload, OutputMode: "html"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_ClassifyTransactionMatch(b *testing.B) {
	handler, err := classifytransactionmatch.NewHandler(classifytransactionmatch.LoadConfig(), nil, logger.NewNoOpLogger())
	require.NoError(b, err)

	input := &classifytransactionmatch.Input{Candidates: []classifytransactionmatch.CandidateInput{
		{Type: 1, TypeNo: 5, Score: 77},
	}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(context.Background(), input)
	}
}
