package notification

import "fmt"

// Template is a rendered message ready for delivery.
type Template struct {
	Subject string
	Body    string
}

const buttonStyle = "display:inline-block;padding:10px 20px;background-color:%s;color:white;text-decoration:none;border-radius:5px"

func renderNewProject(projectTitle, projectURL string) Template {
	return Template{
		Subject: fmt.Sprintf("New project: %s", projectTitle),
		Body: fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2 style="color:#0875FF">A new project has been posted</h2>
<p>Project: <strong>%s</strong></p>
<p>Review the requirements and submit your bid.</p>
<a href="%s" style="`+buttonStyle+`">View project</a>
</div>`, projectTitle, projectURL, "#0875FF"),
	}
}

func renderNewBid(projectTitle, bidderCompany, projectURL string) Template {
	return Template{
		Subject: fmt.Sprintf("New bid: %s", projectTitle),
		Body: fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2 style="color:#0875FF">A new bid has been received</h2>
<p>Project: <strong>%s</strong></p>
<p>Bidder: <strong>%s</strong></p>
<p>Compare the received bids on your dashboard.</p>
<a href="%s" style="`+buttonStyle+`">Review bids</a>
</div>`, projectTitle, bidderCompany, projectURL, "#0875FF"),
	}
}

func renderBidAccepted(projectTitle, projectURL string) Template {
	return Template{
		Subject: fmt.Sprintf("Bid accepted: %s", projectTitle),
		Body: fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2 style="color:#48BB78">Congratulations, your bid was accepted</h2>
<p>Project: <strong>%s</strong></p>
<p>Contact the buyer to start the project.</p>
<a href="%s" style="`+buttonStyle+`">View project</a>
</div>`, projectTitle, projectURL, "#48BB78"),
	}
}

func renderBidRejected(projectTitle string) Template {
	return Template{
		Subject: fmt.Sprintf("Bid result: %s", projectTitle),
		Body: fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2 style="color:#E53E3E">Bid result</h2>
<p>Project: <strong>%s</strong></p>
<p>Your bid was not selected this time.</p>
</div>`, projectTitle),
	}
}
