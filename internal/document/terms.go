package document

// TermsText is the fixed legal text rendered into every acceptance
// document.  It is a static content blob; the generator only reflows it.
const TermsText = `
Terms and Conditions for Bidder and Auctioneer

1. **Eligibility**:
   - Only individuals above 18 years of age can participate in auctions as a bidder or auctioneer.
   - By signing up, users confirm compliance with all applicable laws and regulations.

2. **Auctioneer Responsibilities**:
   - Ensure accurate descriptions of items.
   - Set fair starting prices and minimum bid increments.
   - Resolve disputes in good faith and provide necessary support to bidders.
   - Auctioneers must pay a 5% commission to the platform after receiving payment from the bidder.

3. **Bidder Responsibilities**:
   - Bidders must place genuine bids and honor winning bids.
   - Payment must be made within the specified time frame after winning an auction.
   - Defaulting on payments may lead to account suspension or penalties.

4. **Platform Usage**:
   - The platform serves as a mediator for auctions. It is not responsible for any disputes, fraud, or damages.
   - Users must not engage in malicious activities such as bidding fraud or item misrepresentation.

5. **Confidentiality**:
   - Personal information shared on the platform is protected under the platform's Privacy Policy.
   - Auction details must not be shared or disclosed without consent.

6. **Liabilities**:
   - The platform is not liable for any financial losses, damages, or breaches resulting from user interactions.

7. **Acceptance**:
   - By signing up, you agree to abide by these terms and conditions.
   - Violations may result in suspension or termination of accounts.

Please read and understand these terms carefully before proceeding.
`
