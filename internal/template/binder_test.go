package template

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NormalizedMatch(t *testing.T) {
	b := NewBinder()
	b.Set("start_date", "2026-11-02")

	assert.Equal(t, "2026-11-02", b.Resolve("Start Date"))
}

func TestResolve_Stages(t *testing.T) {
	tests := []struct {
		name   string
		values [][2]string
		lookup string
		want   string
	}{
		{"exact", [][2]string{{"Job Title", "Engineer"}}, "Job Title", "Engineer"},
		{"case insensitive", [][2]string{{"job title", "Engineer"}}, "Job Title", "Engineer"},
		{"separator normalized", [][2]string{{"job-title", "Engineer"}}, "Job Title", "Engineer"},
		{"upper snake", [][2]string{{"JOB_TITLE", "Engineer"}}, "Job Title", "Engineer"},
		{"slash normalized", [][2]string{{"Client Customer Name", "Acme"}}, "Client/Customer Name", "Acme"},
		{"synonym alias to canonical", [][2]string{{"Proposed Start Date", "Monday"}}, "Start Date", "Monday"},
		{"synonym canonical to alias", [][2]string{{"START_DATE", "Monday"}}, "Proposed Start Date", "Monday"},
		{"synonym sibling aliases", [][2]string{{"Customer Name", "Acme"}}, "Client Name", "Acme"},
		{"empty exact falls through", [][2]string{{"Salary", ""}, {"salary", "100k"}}, "Salary", "100k"},
		{"unresolved", [][2]string{{"Job Title", "Engineer"}}, "Manager", ""},
		{"regex metacharacters", [][2]string{{"Salary ($)", "$100,000"}}, "Salary ($)", "$100,000"},
		{"regex metacharacters unresolved", nil, "Salary ($).*[", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBinder()
			for _, kv := range tt.values {
				b.Set(kv[0], kv[1])
			}
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, b.Resolve(tt.lookup))
			})
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	b := NewBinder()
	b.Set("start date", "A")
	b.Set("START_DATE", "B")

	first := b.Resolve("Start Date")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, b.Resolve("Start Date"))
	}
	assert.Equal(t, "A", first)
}

func TestSeed_NeverOverwrites(t *testing.T) {
	b := NewBinder()
	b.Set("Candidate Name", "Alex Kim")

	created := b.Seed(
		[]string{"Candidate Name", "Job Title", "Start Date"},
		map[string]string{"Candidate Name": "Someone Else", "Job Title": "Engineer"},
	)

	assert.Equal(t, []string{"Job Title", "Start Date"}, created)
	assert.Equal(t, "Alex Kim", b.Resolve("Candidate Name"))
	v, ok := b.Value("Job Title")
	assert.True(t, ok)
	assert.Equal(t, "Engineer", v)
	v, ok = b.Value("Start Date")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, []string{"Candidate Name", "Job Title", "Start Date"}, b.Names())
}

func TestClearAll_KeepsNames(t *testing.T) {
	b := NewBinder()
	b.Seed([]string{"A", "B"}, map[string]string{"A": "1", "B": "2"})

	filled, total := b.Completion()
	assert.Equal(t, 2, filled)
	assert.Equal(t, 2, total)

	b.ClearAll()

	filled, total = b.Completion()
	assert.Equal(t, 0, filled)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"A", "B"}, b.Names())
}

func TestObserve_ReceivesChanges(t *testing.T) {
	b := NewBinder()
	var got []Change
	b.Observe(func(c Change) {
		got = append(got, c)
		// observers may read back without deadlocking
		_ = b.Snapshot()
	})

	b.Set("Job Title", "Engineer")
	b.Seed([]string{"Job Title"}, nil)
	b.Seed([]string{"Start Date"}, nil)
	b.ClearAll()

	require.Len(t, got, 3)
	assert.Equal(t, Change{Name: "Job Title", Value: "Engineer"}, got[0])
	assert.True(t, got[1].Bulk)
	assert.True(t, got[2].Bulk)
}

func TestResolver_IsFrozen(t *testing.T) {
	b := NewBinder()
	b.Set("Job Title", "Engineer")
	resolve := b.Resolver()

	b.Set("Job Title", "Manager")

	assert.Equal(t, "Engineer", resolve("Job Title"))
	assert.Equal(t, "Manager", b.Resolve("Job Title"))
}

func TestBinder_ConcurrentAccess(t *testing.T) {
	b := NewBinder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Set("Job Title", "x")
				_ = b.Resolve("job_title")
				_ = b.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, "x", b.Resolve("JOB_TITLE"))
}

func TestSynonymCandidates(t *testing.T) {
	cands := DefaultSynonyms.Candidates("Start Date")
	assert.Contains(t, cands, "Proposed Start Date")
	assert.NotContains(t, cands, "Start Date")

	assert.Empty(t, DefaultSynonyms.Candidates("Favourite Colour"))

	custom := DefaultSynonyms.Clone()
	custom.Add("Signing Bonus", "Sign-on Bonus")
	assert.Equal(t, []string{"Signing Bonus"}, custom.Candidates("Sign On Bonus"))
	assert.Empty(t, DefaultSynonyms.Candidates("Sign On Bonus"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "startdate", normalizeName(" Start_Date "))
	assert.Equal(t, "clientcustomername", normalizeName(`Client\Customer-Name`))
	assert.Equal(t, "START_DATE", upperSnake("Start  Date"))
	assert.Equal(t, "CLIENT_CUSTOMER_NAME", upperSnake("Client/Customer Name"))
}
