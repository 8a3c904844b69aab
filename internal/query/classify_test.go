package query

import "testing"

func TestIsDataQuery(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{"english task verb", "give me the latest status of the bridge project", true},
		{"indonesian task verb", "cari dokumen terbaru untuk minggu ini", true},
		{"revision request", "what is the newest revision of the main drawing", true},
		{"pasted filename underscore", "Garubeka01_BD_Main", true},
		{"pasted filename period", "berikan info mengenai report.pdf", true},
		{"dashboard request routed away", "show me the dashboard for august", false},
		{"indonesian dashboard request", "tampilkan dashboard proyek", false},
		{"small talk", "hello, how are you today", false},
		{"empty message", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDataQuery(tc.message); got != tc.want {
				t.Fatalf("IsDataQuery(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}

func TestIsDataQueryIsDeterministic(t *testing.T) {
	msg := "list semua file tracking"
	first := IsDataQuery(msg)
	for i := 0; i < 10; i++ {
		if IsDataQuery(msg) != first {
			t.Fatal("classification changed between identical calls")
		}
	}
}

func TestWantsRefresh(t *testing.T) {
	if !WantsRefresh("please REFRESH the data first") {
		t.Fatal("expected refresh request to be detected")
	}
	if WantsRefresh("list the latest documents") {
		t.Fatal("unexpected refresh detection")
	}
}
