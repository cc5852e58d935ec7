package diff_test

import (
	"testing"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(pairs ...string) pagesnap.Snapshot {
	var s pagesnap.Snapshot
	for i := 0; i+1 < len(pairs); i += 2 {
		s = append(s, pagesnap.PageResult{URL: pairs[i], Content: pairs[i+1]})
	}
	return s
}

func TestStrict_HasChanged(t *testing.T) {
	t.Parallel()

	base := snapshot("https://a.example", "Alpha content", "https://b.example", "Beta content")

	t.Run("empty previous is a change", func(t *testing.T) {
		t.Parallel()

		assert.True(t, diff.Strict{}.HasChanged(nil, base))
		assert.True(t, diff.Strict{}.HasChanged(pagesnap.Snapshot{}, base))
	})

	t.Run("identical snapshots are unchanged", func(t *testing.T) {
		t.Parallel()

		assert.False(t, diff.Strict{}.HasChanged(base, snapshot("https://a.example", "Alpha content", "https://b.example", "Beta content")))
	})

	t.Run("page order does not matter", func(t *testing.T) {
		t.Parallel()

		reordered := snapshot("https://b.example", "Beta content", "https://a.example", "Alpha content")
		assert.False(t, diff.Strict{}.HasChanged(base, reordered))
	})

	t.Run("content change is detected", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "Alpha content", "https://b.example", "Beta content!")
		assert.True(t, diff.Strict{}.HasChanged(base, next))
	})

	t.Run("whitespace change is detected", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "Alpha  content", "https://b.example", "Beta content")
		assert.True(t, diff.Strict{}.HasChanged(base, next))
	})

	t.Run("page count change is detected", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "Alpha content")
		assert.True(t, diff.Strict{}.HasChanged(base, next))
	})

	t.Run("URL set change is detected", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "Alpha content", "https://c.example", "Beta content")
		assert.True(t, diff.Strict{}.HasChanged(base, next))
	})

	t.Run("empty next after non-empty previous is a change", func(t *testing.T) {
		t.Parallel()

		assert.True(t, diff.Strict{}.HasChanged(base, nil))
	})
}

func TestCorpus_HasChanged(t *testing.T) {
	t.Parallel()

	base := snapshot("https://a.example", "Alpha content", "https://b.example", "Beta content")

	t.Run("empty previous is a change", func(t *testing.T) {
		t.Parallel()

		assert.True(t, diff.Corpus{}.HasChanged(nil, base))
	})

	t.Run("whitespace and case are ignored", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "ALPHA\n\n  content", "https://b.example", "Beta\tContent")
		assert.False(t, diff.Corpus{}.HasChanged(base, next))
	})

	t.Run("page order is ignored", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://b.example", "Beta content", "https://a.example", "Alpha content")
		assert.False(t, diff.Corpus{}.HasChanged(base, next))
	})

	t.Run("URLs are ignored", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://x.example", "Alpha content", "https://y.example", "Beta content")
		assert.False(t, diff.Corpus{}.HasChanged(base, next))
	})

	t.Run("XML declarations are ignored", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", `<?xml version="1.0"?>Alpha content`, "https://b.example", "Beta content")
		assert.False(t, diff.Corpus{}.HasChanged(base, next))
	})

	t.Run("text change is detected", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "Alpha contents", "https://b.example", "Beta content")
		assert.True(t, diff.Corpus{}.HasChanged(base, next))
	})

	t.Run("same-length text change is detected", func(t *testing.T) {
		t.Parallel()

		next := snapshot("https://a.example", "Alpha contest", "https://b.example", "Beta content")
		assert.True(t, diff.Corpus{}.HasChanged(base, next))
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "helloworld", diff.Normalize("  Hello\n\tWORLD  "))
	assert.Equal(t, "body", diff.Normalize(`<?xml version="1.0" encoding="UTF-8"?> Body`))
	assert.Empty(t, diff.Normalize(" \n "))
	assert.Equal(t, "body", diff.Normalize(`<?xml version="1.0" note="a>b"?>Body`), "declaration ends at ?>")
	assert.Equal(t, "<?xmlunclosed>body", diff.Normalize("<?xml unclosed> Body"), "unterminated declaration is kept")
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", diff.Fingerprint(""))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", diff.Fingerprint("hello"))
	assert.Len(t, diff.Fingerprint("안녕하세요"), 64)
}

func TestNew(t *testing.T) {
	t.Parallel()

	d, err := diff.New("")
	require.NoError(t, err)
	assert.IsType(t, diff.Strict{}, d)

	d, err = diff.New(diff.PolicyCorpus)
	require.NoError(t, err)
	assert.IsType(t, diff.Corpus{}, d)

	_, err = diff.New("fuzzy")
	require.Error(t, err)
	assert.Equal(t, pagesnap.EINVALID, pagesnap.ErrorCode(err))
}
