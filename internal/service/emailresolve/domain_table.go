package emailresolve

// knownDomains maps normalized company names to their employee email domain.
var knownDomains = map[string]string{
	// tech
	"google":                     "google.com",
	"alphabet":                   "google.com",
	"meta":                       "meta.com",
	"facebook":                   "meta.com",
	"instagram":                  "meta.com",
	"amazon":                     "amazon.com",
	"amazon web services":        "amazon.com",
	"aws":                        "amazon.com",
	"apple":                      "apple.com",
	"microsoft":                  "microsoft.com",
	"linkedin":                   "linkedin.com",
	"github":                     "github.com",
	"netflix":                    "netflix.com",
	"nvidia":                     "nvidia.com",
	"intel":                      "intel.com",
	"amd":                        "amd.com",
	"ibm":                        "ibm.com",
	"oracle":                     "oracle.com",
	"salesforce":                 "salesforce.com",
	"adobe":                      "adobe.com",
	"cisco":                      "cisco.com",
	"qualcomm":                   "qualcomm.com",
	"uber":                       "uber.com",
	"lyft":                       "lyft.com",
	"airbnb":                     "airbnb.com",
	"stripe":                     "stripe.com",
	"square":                     "squareup.com",
	"block":                      "block.xyz",
	"paypal":                     "paypal.com",
	"shopify":                    "shopify.com",
	"spotify":                    "spotify.com",
	"snap":                       "snap.com",
	"snapchat":                   "snap.com",
	"twitter":                    "x.com",
	"x":                          "x.com",
	"pinterest":                  "pinterest.com",
	"reddit":                     "reddit.com",
	"dropbox":                    "dropbox.com",
	"slack":                      "slack.com",
	"zoom":                       "zoom.us",
	"atlassian":                  "atlassian.com",
	"servicenow":                 "servicenow.com",
	"workday":                    "workday.com",
	"snowflake":                  "snowflake.com",
	"databricks":                 "databricks.com",
	"palantir":                   "palantir.com",
	"openai":                     "openai.com",
	"anthropic":                  "anthropic.com",
	"doordash":                   "doordash.com",
	"instacart":                  "instacart.com",
	"coinbase":                   "coinbase.com",
	"robinhood":                  "robinhood.com",
	"tesla":                      "tesla.com",
	"spacex":                     "spacex.com",
	"vmware":                     "vmware.com",
	"dell":                       "dell.com",
	"dell technologies":          "dell.com",
	"hp":                         "hp.com",
	"hewlett packard enterprise": "hpe.com",
	"samsung":                    "samsung.com",
	"sony":                       "sony.com",
	"intuit":                     "intuit.com",
	"yahoo":                      "yahooinc.com",
	"ebay":                       "ebay.com",
	"twilio":                     "twilio.com",
	"cloudflare":                 "cloudflare.com",
	"datadog":                    "datadoghq.com",
	"mongodb":                    "mongodb.com",
	"hubspot":                    "hubspot.com",
	"zillow":                     "zillow.com",
	"expedia":                    "expedia.com",
	"booking":                    "booking.com",
	"tiktok":                     "tiktok.com",
	"bytedance":                  "bytedance.com",
	"roblox":                     "roblox.com",
	"electronic arts":            "ea.com",
	"epic games":                 "epicgames.com",
	// finance
	"jpmorgan":             "jpmorgan.com",
	"jp morgan":            "jpmorgan.com",
	"jpmorgan chase":       "jpmorgan.com",
	"goldman sachs":        "gs.com",
	"morgan stanley":       "morganstanley.com",
	"bank of america":      "bofa.com",
	"citi":                 "citi.com",
	"citigroup":            "citi.com",
	"wells fargo":          "wellsfargo.com",
	"capital one":          "capitalone.com",
	"american express":     "aexp.com",
	"amex":                 "aexp.com",
	"visa":                 "visa.com",
	"mastercard":           "mastercard.com",
	"blackrock":            "blackrock.com",
	"fidelity":             "fmr.com",
	"fidelity investments": "fmr.com",
	"charles schwab":       "schwab.com",
	"vanguard":             "vanguard.com",
	"citadel":              "citadel.com",
	"two sigma":            "twosigma.com",
	"jane street":          "janestreet.com",
	"bloomberg":            "bloomberg.net",
	// consulting and accounting
	"mckinsey":                "mckinsey.com",
	"mckinsey & company":      "mckinsey.com",
	"boston consulting group": "bcg.com",
	"bcg":                     "bcg.com",
	"bain":                    "bain.com",
	"bain & company":          "bain.com",
	"deloitte":                "deloitte.com",
	"pwc":                     "pwc.com",
	"ey":                      "ey.com",
	"ernst & young":           "ey.com",
	"kpmg":                    "kpmg.com",
	"accenture":               "accenture.com",
	"booz allen hamilton":     "bah.com",
	// healthcare and pharma
	"unitedhealth group": "uhg.com",
	"cvs health":         "cvshealth.com",
	"johnson & johnson":  "its.jnj.com",
	"pfizer":             "pfizer.com",
	"merck":              "merck.com",
	"abbvie":             "abbvie.com",
	"kaiser permanente":  "kp.org",
	"mayo clinic":        "mayo.edu",
	"cleveland clinic":   "ccf.org",
	"moderna":            "modernatx.com",
	// retail and consumer
	"walmart":                 "walmart.com",
	"target":                  "target.com",
	"costco":                  "costco.com",
	"home depot":              "homedepot.com",
	"the home depot":          "homedepot.com",
	"nike":                    "nike.com",
	"starbucks":               "starbucks.com",
	"coca-cola":               "coca-cola.com",
	"pepsico":                 "pepsico.com",
	"procter & gamble":        "pg.com",
	"disney":                  "disney.com",
	"the walt disney company": "disney.com",
	// industrial, telecom, aerospace
	"boeing":           "boeing.com",
	"lockheed martin":  "lmco.com",
	"general electric": "ge.com",
	"ge":               "ge.com",
	"general motors":   "gm.com",
	"ford":             "ford.com",
	"at&t":             "att.com",
	"verizon":          "verizon.com",
	"t-mobile":         "t-mobile.com",
	"comcast":          "comcast.com",
	// government
	"nasa": "nasa.gov",
	"fbi":  "fbi.gov",
	"cia":  "cia.gov",
	// universities
	"stanford":                              "stanford.edu",
	"stanford university":                   "stanford.edu",
	"mit":                                   "mit.edu",
	"massachusetts institute of technology": "mit.edu",
	"harvard":                               "harvard.edu",
	"harvard university":                    "harvard.edu",
	"uc berkeley":                           "berkeley.edu",
	"carnegie mellon university":            "cmu.edu",
	"university of washington":              "uw.edu",
}

// personalDomains are consumer mailbox providers. They are never treated as
// a company domain.
var personalDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"ymail.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"aol.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"mac.com":        {},
	"protonmail.com": {},
	"proton.me":      {},
	"gmx.com":        {},
	"mail.com":       {},
	"yandex.com":     {},
	"zoho.com":       {},
	"comcast.net":    {},
	"verizon.net":    {},
	"att.net":        {},
	"sbcglobal.net":  {},
	"qq.com":         {},
	"163.com":        {},
}

// alternateDomains lists other domains employees of the same organisation
// commonly use.
var alternateDomains = map[string][]string{
	"meta.com":      {"fb.com", "facebook.com"},
	"fb.com":        {"meta.com", "facebook.com"},
	"facebook.com":  {"meta.com", "fb.com"},
	"google.com":    {"alphabet.com"},
	"alphabet.com":  {"google.com"},
	"x.com":         {"twitter.com"},
	"twitter.com":   {"x.com"},
	"block.xyz":     {"squareup.com"},
	"squareup.com":  {"block.xyz"},
	"yahooinc.com":  {"yahoo-inc.com"},
	"yahoo-inc.com": {"yahooinc.com"},
	"ey.com":        {"ey.net"},
	"pwc.com":       {"us.pwc.com"},
}

// IsPersonalDomain reports whether domain belongs to a consumer mail provider.
func IsPersonalDomain(domain string) bool {
	_, ok := personalDomains[normalizeDomain(domain)]
	return ok
}

// AlternateDomains returns the known alternates for domain.
func AlternateDomains(domain string) []string {
	alts := alternateDomains[normalizeDomain(domain)]
	out := make([]string, len(alts))
	copy(out, alts)
	return out
}
