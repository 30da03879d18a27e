package auth

import (
	"bytes"
	"html/template"
	"net/http"
)

// AdminRedirectDelayMillis is how long the success page waits before sending the merchant back to the admin.
const AdminRedirectDelayMillis = 30000

var successPage = template.Must(template.New("success").Parse(`<html>
  <head>
    <title>OAuth Success</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
      .success { background: #d4edda; border: 1px solid #c3e6cb; padding: 15px; border-radius: 5px; }
      .token { background: #f8f9fa; border: 1px solid #dee2e6; padding: 10px; font-family: monospace; word-break: break-all; }
    </style>
  </head>
  <body>
    <div class="success">
      <h1>OAuth Authentication Successful!</h1>
      <p><strong>Shop:</strong> {{.Shop}}</p>
      <p><strong>Access Token:</strong></p>
      <div class="token">{{.AccessToken}}</div>
      <br>
      <p><strong>Next Step:</strong> Copy the access token above and add it to your environment variables as <code>SHOPIFY_ACCESS_TOKEN</code></p>
    </div>
    <script>
      setTimeout(function () {
        window.top.location.href = "https://{{.Shop}}/admin/apps";
      }, {{.DelayMillis}});
    </script>
  </body>
</html>
`))

var errorPage = template.Must(template.New("error").Parse(`<html>
  <head>
    <title>OAuth Error</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
      .error { background: #f8d7da; border: 1px solid #f5c6cb; padding: 15px; border-radius: 5px; }
    </style>
  </head>
  <body>
    <div class="error">
      <h1>OAuth Error</h1>
      <p><strong>Error:</strong> {{.Message}}</p>
      <p><strong>Status:</strong> {{.Status}}</p>
      <p><strong>Details:</strong> {{.Details}}</p>
      <p>Check the service logs for more detailed information.</p>
    </div>
  </body>
</html>
`))

type successView struct {
	Shop        string
	AccessToken string
	DelayMillis int
}

type errorView struct {
	Message string
	Status  string
	Details string
}

// writeHTML renders the whole page before any header is written.
func writeHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
