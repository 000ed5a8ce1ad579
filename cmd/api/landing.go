package main

import (
	"net/http"

	"github.com/noah-isme/payment-simulator/internal/common"
)

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Payment API Simulator</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); min-height: 100vh; padding: 40px 20px; }
        .container { max-width: 800px; margin: 0 auto; background: white; border-radius: 12px; box-shadow: 0 10px 30px rgba(0,0,0,0.1); overflow: hidden; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 40px; text-align: center; }
        .header h1 { font-size: 2em; margin-bottom: 10px; }
        .content { padding: 30px 40px 40px; }
        .method { background: #f8f9ff; border: 1px solid #e1e5fe; border-radius: 8px; padding: 20px; margin-top: 20px; }
        .method h2 { font-size: 1.2em; color: #333; margin-bottom: 10px; }
        .endpoint { font-family: 'Courier New', monospace; font-size: 13px; color: #555; padding: 3px 0; }
        .links { margin-top: 25px; text-align: center; }
        .links a { color: #667eea; text-decoration: none; margin: 0 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💳 Payment API Simulator</h1>
            <p>Mock Saudi payment rails for development and testing</p>
        </div>
        <div class="content">
            <div class="method">
                <h2>💳 Credit Card</h2>
                <div class="endpoint">POST /api/v1/creditcard/payment-intent</div>
                <div class="endpoint">GET /api/v1/creditcard/payment/{paymentId}</div>
            </div>
            <div class="method">
                <h2>📱 STC Pay</h2>
                <div class="endpoint">POST /api/v1/stcpay/payment</div>
                <div class="endpoint">POST /api/v1/stcpay/verify-otp</div>
            </div>
            <div class="method">
                <h2>🛍️ Tabby (BNPL)</h2>
                <div class="endpoint">POST /api/v1/tabby/checkout</div>
                <div class="endpoint">POST /api/v1/tabby/capture</div>
            </div>
            <div class="links">
                <a href="/api">API index</a>
                <a href="/admin">Admin dashboard</a>
                <a href="/health">Health</a>
            </div>
        </div>
    </div>
</body>
</html>
`

func landingPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(landingHTML))
}

func apiIndex(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"name":    "Payment API Simulator",
		"version": "1.0.0",
		"authentication": map[string]any{
			"header":     "Authorization: Bearer <api_key> or X-API-Key: <api_key>",
			"query":      "?api_key=<api_key>",
			"management": "/admin/api-keys",
		},
		"endpoints": map[string]any{
			"creditcard": []string{
				"POST /api/v1/creditcard/payment-intent",
				"GET /api/v1/creditcard/payment/{paymentId}",
				"POST /api/v1/creditcard/callback",
				"POST /api/v1/creditcard/refund",
			},
			"stcpay": []string{
				"POST /api/v1/stcpay/payment",
				"POST /api/v1/stcpay/verify-otp",
				"GET /api/v1/stcpay/payment/{paymentId}",
				"POST /api/v1/stcpay/callback",
				"POST /api/v1/stcpay/refund",
			},
			"tabby": []string{
				"POST /api/v1/tabby/checkout",
				"POST /api/v1/tabby/capture",
				"GET /api/v1/tabby/payment/{paymentId}",
				"POST /api/v1/tabby/callback",
				"POST /api/v1/tabby/refund",
				"POST /api/v1/tabby/close",
			},
			"verification": []string{
				"GET /verify/{method}/{sessionId}",
				"POST /verify/approve/{sessionId}",
			},
			"admin": []string{
				"GET /admin/api-keys",
				"PUT /admin/api-keys",
				"POST /admin/api-keys/regenerate",
			},
		},
	})
}
