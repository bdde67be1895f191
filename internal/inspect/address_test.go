package inspect

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		name, html, wantName, wantAddr string
	}{
		{
			name:     "ip with port",
			html:     `<body><h1>alpha</h1><div><span>IP</span> <span>10.0.0.4:8080</span></div></body>`,
			wantName: "alpha",
			wantAddr: "10.0.0.4:8080",
		},
		{
			name:     "hostname with port",
			html:     `<body><h1>beta</h1><p>node3.pella.host:25565</p></body>`,
			wantName: "beta",
			wantAddr: "node3.pella.host:25565",
		},
		{
			name:     "address in input",
			html:     `<body><h1>gamma</h1><input readonly value="192.168.1.20:3000"></body>`,
			wantName: "gamma",
			wantAddr: "192.168.1.20:3000",
		},
		{
			name:     "script text ignored",
			html:     `<body><h1>delta</h1><script>var x = "1.2.3.4:99";</script></body>`,
			wantName: "delta",
			wantAddr: "delta",
		},
		{
			name:     "nothing found",
			html:     `<body><p>loading</p></body>`,
			wantName: "",
			wantAddr: "srv-id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, addr := Describe(tt.html, "srv-id")
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if addr != tt.wantAddr {
				t.Errorf("address = %q, want %q", addr, tt.wantAddr)
			}
		})
	}
}
