package crawler

// Page structure of the retailer's listing, product and review pages.
const (
	selListingLink = "a.a-link-normal.s-underline-text.s-underline-link-text.s-link-style.a-text-normal"
	selListingNext = "a.s-pagination-next"

	selProductTitle   = "#productTitle"
	selReviewsSection = "#customerReviews"
	selTitleBlock     = "div#title_feature_div"
	selTitleSpan      = "span#productTitle"
	selTagRegion      = "div#cr-dp-lighthut"
	selTagTerm        = "span.cr-lighthouse-term"

	selReviewBlock = "div[data-hook='review']"
	selReviewBody  = "span[data-hook='review-body']"
	selReviewLast  = "li.a-last"
)
