package corpusstore

import "context"

// Starter corpus of known spam and ham, so a fresh deployment can train a
// usable model before any admin-confirmed samples arrive.
var seedSpam = []string{
	"Thanks to Kathy Lien my trading account is thriving with great returns",
	"From food stamps to $20,300 profit Mrs @forexqueen I bought my son a bike",
	"I use an automated trading system based on market conditions and advanced algorithms",
	"Send me a DM for more proof of my trading results",
	"My trading account grew from $500 to $50,000 in just 2 weeks",
	"Contact @tradingexpert for guaranteed daily returns of 5%",
	"Financial assistance without hassle, withdrawals are straightforward",
	"Thanks to this expert trader I made $10,000 in one week",
	"Join my trading team and earn $500-$1000 per week",
	"I was skeptical but now I make $200 daily from home",
	"New online project! Legal and secure activities on Bybit!",
	"Urgently seeking 2-3 individuals for remote employment",
	"70-80 dollars per day, only via phone or PC. Details in PM",
	"I am looking for 2-3 people to join my team at Bybit",
	"We're recruiting for a cool project, earn $500-$1000 per week",
	"Looking for partners for a completely remote project",
	"Earn from home, simple tasks, full training provided",
	"Write + if interested in earning extra income",
	"Opening recruitment for a new online opportunity",
	"Work from home and earn $1000+ weekly guaranteed",
	"Get your welcome bonus now at 1win casino",
	"Use promo code for free spins and $200 bonus",
	"I won $5000 on slots last night, try your luck",
	"Jackpot winner! Claim your bonus now",
	"Casino bonus activated on your balance",
	"DM me now for exclusive opportunity",
	"Inbox me for details on how to make money fast",
	"Click this link to claim your free crypto",
	"Guaranteed profit with no risk involved",
	"Send me $100 and I'll send back $1000",
	"Limited time offer, act now before it's too late",
	"I made $50,000 last month working from home",
	"This changed my life, you need to try this",
}

var seedHam = []string{
	"What do you think about BTC price action today?",
	"I'm bullish on ETH for the long term",
	"The market is looking pretty volatile",
	"Should I DCA into Bitcoin or wait for a dip?",
	"What's the best strategy for beginners?",
	"I've been holding since 2020",
	"Is this a good entry point for SOL?",
	"The funding rates are really high right now",
	"Technical analysis shows support at 40k",
	"How do I withdraw my funds?",
	"What are the fees on this platform?",
	"Can someone help me with KYC verification?",
	"Is there a referral program?",
	"When will the new feature be released?",
	"I'm having trouble logging in",
	"How do I contact support?",
	"What's the minimum deposit amount?",
	"Can I use a credit card to buy crypto?",
	"How long does withdrawal take?",
	"Good morning everyone!",
	"Thanks for the help",
	"That makes sense, appreciate it",
	"I agree with your analysis",
	"Interesting perspective",
	"Let's see how this plays out",
	"Happy trading everyone",
	"Stay safe out there",
	"Great community here",
	"Glad to be part of this group",
}

// LoadSeedCorpus appends the built-in starter samples to the store.
// Duplicate-safe; calling it against an already-seeded store is a no-op.
func LoadSeedCorpus(ctx context.Context, store CorpusStore) error {
	for _, text := range seedSpam {
		if _, err := store.AddSample(ctx, text, LabelSpam); err != nil {
			return err
		}
	}
	for _, text := range seedHam {
		if _, err := store.AddSample(ctx, text, LabelHam); err != nil {
			return err
		}
	}
	return nil
}
