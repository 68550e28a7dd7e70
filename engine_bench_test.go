package goTokenAuth

import (
	"context"
	"testing"
)

func BenchmarkIssueFor(b *testing.B) {
	f := newFixture(b)
	user := ClaimsUser{ID: f.user.ID, Email: f.user.Email}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.engine.IssueFor(user, t0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAuthenticate(b *testing.B) {
	f := newFixture(b)
	pair, err := f.engine.Issue(context.Background(), f.user.ID)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := f.engine.Authenticate(ctx, pair.AccessToken); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkRefresh(b *testing.B) {
	f := newFixture(b)
	pair, err := f.engine.Issue(context.Background(), f.user.ID)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.engine.Refresh(context.Background(), pair.RefreshToken); err != nil {
			b.Fatal(err)
		}
	}
}
