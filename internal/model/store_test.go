package model

import "testing"

func TestStore_AdvertiserIDList(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   []string
	}{
		{"裸字符串", "10028", []string{"10028"}},
		{"带空白的裸字符串", "  10028  ", []string{"10028"}},
		{"JSON 数组", `["10028","10029"]`, []string{"10028", "10029"}},
		{"JSON 数组含空项", `["10028","","10029"]`, []string{"10028", "10029"}},
		{"空配置", "", nil},
		{"纯空白", "   ", nil},
		{"坏 JSON", `["10028`, nil},
		{"空 JSON 数组", `[]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &Store{AdvertiserIDs: tt.config}
			got := store.AdvertiserIDList()

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
