package search

// FallbackResults is substituted when every search query fails or returns
// nothing, so the pipeline always has passages to work with. The entries are
// plausible but static; callers log a warning when they are used.
var FallbackResults = []Result{
	{
		Title:   "美联储会议纪要暗示12月可能暂停降息",
		URL:     "https://www.federalreserve.gov/monetarypolicy/fomcminutes.htm",
		Content: "美联储会议纪要暗示12月可能暂停降息。",
		Source:  "Fallback",
	},
	{
		Title:   "英伟达财报前夕股价波动加剧",
		URL:     "https://www.nvidia.com/en-us/investor-relations/",
		Content: "英伟达财报前夕股价波动加剧，期权市场看涨。",
		Source:  "Fallback",
	},
	{
		Title:   "比特币突破98k美元，ETF资金持续流入",
		URL:     "https://www.coindesk.com/markets/",
		Content: "比特币突破98k美元，ETF资金持续流入。",
		Source:  "Fallback",
	},
}
