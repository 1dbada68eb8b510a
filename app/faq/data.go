// Package faq holds the static VREG knowledge base. Entries are immutable
// and identified by their position in the dataset.
package faq

type Entry struct {
	Question string
	Answer   string
	Category string
	// Keywords drive the substring scorer of the keyword retrieval strategy.
	Keywords []string
}

var entries = []Entry{
	{
		Question: "I am not getting my confirmation link after registration",
		Answer:   "Check your spam folder or confirm if you used the correct email address in creating a VREG account.",
		Category: "registration",
		Keywords: []string{"confirmation", "link", "spam", "email", "register", "account"},
	},
	{
		Question: "After inputting my TIN on the portal, it brought out an Invalid statement",
		Answer:   "Go to www.trade.gov.ng, click on Agencies then FIRS to validate your TIN",
		Category: "registration",
		Keywords: []string{"tin", "invalid", "firs", "validate"},
	},
	{
		Question: "I cannot access my dashboard because I forgot the password",
		Answer:   "Go to www.vreg.gov.ng, click on login, then forget password, enter the email address used during registration and click on recover. A link will be sent to your email, click on the link and create a new password.",
		Category: "registration",
		Keywords: []string{"password", "forgot", "dashboard", "login", "recover", "access"},
	},
	{
		Question: "I tried to register for VREG but after inputting my TIN/Agency code it says TIN/Agency code has been taken",
		Answer:   "Your agency already has an account created with VREG, kindly confirm the email address used during the registration and reset your password to be able to login successfully.",
		Category: "registration",
		Keywords: []string{"tin", "agency code", "taken", "register", "already"},
	},
	{
		Question: "The portal is not recognizing my VIN, showing 'Warning! This is a non-standard VIN'",
		Answer:   "This is a non-standard VIN that needs manual validation. Input the HS code and VIN number, then click submit. A prompt will appear, click try again, submit the VIN and HS code, click next and input the vehicle information and submit while you await VIN validation.",
		Category: "vin_validation",
		Keywords: []string{"vin", "non-standard", "warning", "recognizing", "hs code"},
	},
	{
		Question: "I submitted my VIN for validation and it's showing on the Pending tab",
		Answer:   "Your VIN has been validated manually, kindly generate an invoice and proceed to make payment.",
		Category: "vin_validation",
		Keywords: []string{"vin", "pending", "validation", "submitted"},
	},
	{
		Question: "I submitted a wrong VIN for manual validation, how can I cancel it?",
		Answer:   "The VIN will automatically be erased from your dashboard once the due date elapses.",
		Category: "vin_validation",
		Keywords: []string{"vin", "wrong", "cancel", "manual validation"},
	},
	{
		Question: "SGD Portal is telling me VREG does not exist",
		Answer:   "Take a screenshot of the error message and attach the affected VREG certificate and send it to support@vreg.gov.ng",
		Category: "transmission",
		Keywords: []string{"sgd", "does not exist", "portal", "screenshot"},
	},
	{
		Question: "My VREG certificate information was not transmitted to customs ESGD platform",
		Answer:   "This is a transmission case where VREG certificate information failed to reach customs. Please contact support@vreg.gov.ng with your certificate details and error screenshots.",
		Category: "transmission",
		Keywords: []string{"transmit", "customs", "esgd", "certificate"},
	},
	{
		Question: "I made a payment for a VREG certificate but no certificate was generated",
		Answer:   "Send the invoice number, payment proof and the date payment were made to payments@vreg.gov.ng",
		Category: "payment",
		Keywords: []string{"payment", "certificate", "generated", "invoice", "proof"},
	},
	{
		Question: "How can I get access to the certificate which I generated on the VREG portal?",
		Answer:   "Login to your dashboard, click on certificate and then enter either the invoice number or VIN for the vehicle on the search tab to be able to view the certificate.",
		Category: "payment",
		Keywords: []string{"certificate", "access", "view", "download"},
	},
	{
		Question: "My VIN is generating multiple invoices. Can I make the payment?",
		Answer:   "Select a single Invoice number and proceed to initiate payment for the VIN.",
		Category: "payment",
		Keywords: []string{"multiple", "invoices", "vin", "payment"},
	},
	{
		Question: "My payment is under investigation",
		Answer:   "Kindly note that this issue is under investigation. Once the payment has been confirmed successful, the VREG certificate will be generated. Endeavor to check your payment status occasionally.",
		Category: "payment",
		Keywords: []string{"investigation", "payment", "status"},
	},
	{
		Question: "My payment transaction was unsuccessful",
		Answer:   "Kindly note that your payment transaction was unsuccessful on this invoice. Reach out or contact your bank to log a complaint or seek a reversal.",
		Category: "payment",
		Keywords: []string{"unsuccessful", "transaction", "failed", "bank", "reversal"},
	},
	{
		Question: "How do I request a refund?",
		Answer:   "Kindly fill in your details to process your refund: Full Name, Email Address, Phone Number, Excess Amount Paid, Invoice Number, Proof of Payment, Account Number, Account Name, Transaction Date, Bank Name. Your refund will be processed within 3-7 working days.",
		Category: "payment",
		Keywords: []string{"refund", "excess", "money back"},
	},
	{
		Question: "The Agency we used for capturing has been blocked. I want to change to another",
		Answer:   "The consignee should write a letter of cancellation of VREG certificate addressing it to the managing director of VREG, and attach the bill of lading, VREG certificate and a CAC certificate (if consignee is a company) or a Valid means of identification (if consignee is an individual) and send it to support@vreg.gov.ng",
		Category: "agency",
		Keywords: []string{"agency", "blocked", "change", "capturing", "cancellation"},
	},
	{
		Question: "A wrong consignee TIN was used in generating a VREG certificate",
		Answer:   "The agency should write a letter of cancellation of the VREG certificate addressing it to the managing director of VREG, and attach the bill of lading and VREG certificate.",
		Category: "agency",
		Keywords: []string{"consignee", "wrong", "tin", "cancellation"},
	},
	{
		Question: "I cannot access the Vehicle on Custom portal because it says the company's code on VREG is different from that on ESGD",
		Answer:   "Kindly enter the correct consignee's TIN that was used in generating the VREG certificate to be able to access the Vehicle on customs portal.",
		Category: "agency",
		Keywords: []string{"company", "code", "different", "esgd", "customs"},
	},
	{
		Question: "After entering my correct login details an error message pop up saying 'this field is required'",
		Answer:   "Ensure you have a good network connection and then try to login again.",
		Category: "technical",
		Keywords: []string{"field is required", "login", "error", "network"},
	},
	{
		Question: "What is VREG?",
		Answer:   "The National Vehicle Registry (VREG) is the centralized database for all vehicles in Nigeria through unique Vehicle Identification Numbers (VIN). It stores detailed vehicular information such as specifications, ownership, and history of each vehicle in Nigeria.",
		Category: "general",
		Keywords: []string{"what is vreg", "vehicle registry", "about"},
	},
	{
		Question: "What is the purpose of VREG?",
		Answer:   "VREG was created by the Federal Ministry of Finance as a solution to customs duty evasion, vehicle theft, vehicle-related crimes, and ineffective vehicle insurance coverage. All vehicle owners are required to register their vehicles using the VIN on the VREG portal.",
		Category: "general",
		Keywords: []string{"purpose", "why", "created"},
	},
	{
		Question: "What documents do I need for VREG registration?",
		Answer:   "You'll need: Valid ID/Passport, Vehicle purchase receipt, Customs clearance certificate, Insurance certificate, Vehicle inspection report, and your Tax Identification Number (TIN).",
		Category: "general",
		Keywords: []string{"documents", "need", "requirements", "registration"},
	},
	{
		Question: "How can I contact VREG support?",
		Answer:   "You can contact VREG support via: Email: support@vreg.gov.ng, Payment issues: payments@vreg.gov.ng, Phone: Contact helpdesk, Visit: Physical walk-in support, Website: www.vreg.gov.ng",
		Category: "general",
		Keywords: []string{"contact", "support", "help", "phone", "reach"},
	},
}

// Entries returns the full dataset in its original order. The slice is a
// copy, so callers can reorder freely without touching the dataset.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	return out
}

// Count reports the dataset size, used by the health endpoint.
func Count() int {
	return len(entries)
}
